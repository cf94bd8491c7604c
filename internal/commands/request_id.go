package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// resolveRequestID returns the idempotency key for this invocation.
// Precedence: --request-id, HUDDLE_REQUEST_ID, then a fresh random id.
// Mutating commands echo the key so a caller can retry with it safely.
func resolveRequestID(cmd *cobra.Command) string {
	if v, err := cmd.Flags().GetString("request-id"); err == nil && v != "" {
		return v
	}
	if v := os.Getenv("HUDDLE_REQUEST_ID"); v != "" {
		return v
	}
	return uuid.NewString()
}

// subRequestID derives the key for the i-th mutation of a command that
// issues several.
func subRequestID(requestID string, i int) string {
	return fmt.Sprintf("%s/%d", requestID, i)
}
