package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// RunIdempotent runs operation in a transaction once per (actor, requestID).
// A repeated request id replays the stored result instead of running the
// operation again. An empty requestID runs the operation in a plain
// transaction. replayed reports whether the result came from a prior run.
func RunIdempotent[T any](ctx context.Context, db *sql.DB, actor, requestID, command string, operation func(tx *sql.Tx) (T, error)) (result T, replayed bool, err error) {
	err = TransactContext(ctx, db, func(tx *sql.Tx) error {
		replayed = false
		if requestID == "" {
			out, opErr := operation(tx)
			if opErr != nil {
				return opErr
			}
			result = out
			return nil
		}

		existing, done, claimErr := claimRequestTx(tx, actor, requestID, command)
		if claimErr != nil {
			return claimErr
		}
		if done {
			if decodeErr := json.Unmarshal([]byte(existing), &result); decodeErr != nil {
				return fmt.Errorf("failed to decode idempotency result: %w", decodeErr)
			}
			replayed = true
			return nil
		}

		out, opErr := operation(tx)
		if opErr != nil {
			return opErr
		}
		b, encErr := json.Marshal(out)
		if encErr != nil {
			return fmt.Errorf("failed to encode idempotency result: %w", encErr)
		}
		if completeErr := completeRequestTx(tx, actor, requestID, string(b)); completeErr != nil {
			return completeErr
		}
		result = out
		return nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return result, replayed, nil
}
