package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrIdempotencyInProgress = errors.New("idempotency in progress")

// claimRequestTx reserves (actor, request_id) for command. When the pair was
// already completed it returns the stored result for replay.
func claimRequestTx(tx *sql.Tx, actor, requestID, command string) (replay string, done bool, err error) {
	if actor == "" {
		return "", false, errors.New("actor is required")
	}
	if command == "" {
		return "", false, errors.New("idempotency command is required")
	}

	_, err = tx.Exec(`
		INSERT INTO idempotency (actor, request_id, command, result_json)
		VALUES (?, ?, ?, '')
	`, actor, requestID, command)
	if err == nil {
		return "", false, nil
	}
	if !IsUniqueConstraintErr(err) {
		return "", false, fmt.Errorf("failed to insert idempotency row: %w", err)
	}

	var existingCommand, resultJSON string
	if err := tx.QueryRow(`
		SELECT command, result_json FROM idempotency
		WHERE actor = ? AND request_id = ?
	`, actor, requestID).Scan(&existingCommand, &resultJSON); err != nil {
		return "", false, fmt.Errorf("failed to load idempotency row: %w", err)
	}
	if existingCommand != command {
		return "", false, &RequestIDReusedError{RequestID: requestID, Command: existingCommand, Requested: command}
	}
	if strings.TrimSpace(resultJSON) == "" {
		return "", false, fmt.Errorf("%w: actor=%q request_id=%q command=%q", ErrIdempotencyInProgress, actor, requestID, command)
	}
	return resultJSON, true, nil
}

func completeRequestTx(tx *sql.Tx, actor, requestID, resultJSON string) error {
	if resultJSON == "" {
		return errors.New("idempotency result json must be non-empty")
	}
	res, err := tx.Exec(`
		UPDATE idempotency SET result_json = ?
		WHERE actor = ? AND request_id = ?
	`, resultJSON, actor, requestID)
	if err != nil {
		return fmt.Errorf("failed to update idempotency row: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n != 1 {
		return fmt.Errorf("idempotency row not found for actor=%q request_id=%q", actor, requestID)
	}
	return nil
}

// RequestIDReusedError reports a request id replayed for a different command.
type RequestIDReusedError struct {
	RequestID string
	Command   string
	Requested string
}

func (e *RequestIDReusedError) Error() string {
	return fmt.Sprintf("request id %q already used for %q (new: %q)", e.RequestID, e.Command, e.Requested)
}
func (e *RequestIDReusedError) ErrorCode() string { return "REQUEST_ID_REUSED" }
func (e *RequestIDReusedError) Context() map[string]string {
	return map[string]string{
		"request_id": e.RequestID,
		"command":    e.Command,
		"requested":  e.Requested,
	}
}
func (e *RequestIDReusedError) SuggestedAction() string {
	return "retry with a new --request-id"
}

// IsUniqueConstraintErr checks for SQLite unique constraint violations.
//
// Detection relies on modernc.org/sqlite error message format (v1.45+):
//
//	"constraint failed: UNIQUE constraint failed: table.col (2067)"
func IsUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
