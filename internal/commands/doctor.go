package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/app"
	"github.com/dotcommander/huddle/internal/store"
)

func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database connectivity and data consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := app.ResolveUser()
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type schemaInfo struct {
				Current int64 `json:"current"`
				Latest  int64 `json:"latest"`
			}
			type resp struct {
				User        string             `json:"user,omitempty"`
				DBPath      string             `json:"db_path"`
				DBSource    string             `json:"db_source"`
				DBOK        bool               `json:"db_ok"`
				DBErr       string             `json:"db_error,omitempty"`
				QueryOK     bool               `json:"query_ok"`
				QueryErr    string             `json:"query_error,omitempty"`
				Schema      *schemaInfo        `json:"schema,omitempty"`
				Cache       app.CacheSettings  `json:"cache"`
				Diagnostics []store.Diagnostic `json:"diagnostics"`
				Hint        string             `json:"hint,omitempty"`
			}
			result := resp{
				User:        user,
				DBPath:      dbPath,
				DBSource:    dbSource,
				Cache:       app.EffectiveCacheSettings(),
				Diagnostics: []store.Diagnostic{},
			}

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				result.DBErr = err.Error()
				result.QueryErr = "db not available"
				result.Hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
				return printSuccess(cmd, result)
			}
			defer func() { _ = db.Close() }()
			result.DBOK = true

			var one int
			if err := db.QueryRowContext(cmd.Context(), "SELECT 1").Scan(&one); err != nil {
				result.QueryErr = err.Error()
			} else {
				result.QueryOK = true
			}

			if current, latest, err := store.SchemaVersion(db); err == nil {
				result.Schema = &schemaInfo{Current: current, Latest: latest}
			}
			if diagnostics, err := store.RunDiagnostics(db); err == nil && diagnostics != nil {
				result.Diagnostics = diagnostics
			}

			return printSuccess(cmd, result)
		},
	}

	return cmd
}
