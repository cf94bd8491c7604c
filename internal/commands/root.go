package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/app"
	"github.com/dotcommander/huddle/internal/output"
)

//nolint:gochecknoglobals // process-wide log level toggled by --debug
var logLevel = new(slog.LevelVar)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	return run(NewRootCmd(version))
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "huddle",
		Short:         "Team messaging workspaces, channels and threads from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return printSuccess(cmd, resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if debug, _ := cmd.Flags().GetBool("debug"); debug || envBool("HUDDLE_DEBUG") {
				level = slog.LevelDebug
			}
			logLevel.Set(level)

			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --db-path and --user into app-level resolvers. Empty values
			// clear an override left by a previous invocation in this process.
			dbPath, _ := cmd.Flags().GetString("db-path")
			app.SetDBPathOverride(dbPath)
			user, _ := cmd.Flags().GetString("user")
			app.SetUserOverride(user)
			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override database path")
	root.PersistentFlags().StringP("user", "u", "", "Acting user id (default: $HUDDLE_USER)")
	root.PersistentFlags().String("request-id", "", "Idempotency key for mutating operations (default: $HUDDLE_REQUEST_ID)")
	root.PersistentFlags().Bool("debug", false, "Log lifecycle transitions to stderr (default: $HUDDLE_DEBUG)")
	root.Flags().BoolP("version", "v", false, "version for huddle")

	root.AddCommand(NewUserCmd())
	root.AddCommand(NewWorkspaceCmd())
	root.AddCommand(NewChannelCmd())
	root.AddCommand(NewMemberCmd())
	root.AddCommand(NewDMCmd())
	root.AddCommand(NewMessageCmd())
	root.AddCommand(NewFilterCmd())
	root.AddCommand(NewEventsCmd())
	root.AddCommand(NewDBCmd())
	root.AddCommand(NewDoctorCmd())
	root.AddCommand(NewSchemaCmd(root))

	return root
}

// run executes root and writes the JSON error envelope for failed commands.
func run(root *cobra.Command) error {
	err := root.Execute()
	if err == nil {
		return nil
	}

	var pe printedError
	if errors.As(err, &pe) {
		_ = output.PrintWith(outputConfig(root), output.Error(pe.err))
		return err
	}
	slog.Error("command failed", "error", err.Error())
	_ = output.PrintWith(outputConfig(root), output.Error(err))
	return err
}

func envBool(key string) bool {
	v := os.Getenv(key)
	return v == "1" || v == "true"
}
