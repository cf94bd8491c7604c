package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/output"
	"github.com/dotcommander/huddle/internal/store"
)

func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the workspace activity log",
	}

	cmd.AddCommand(newEventsListCmd())
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

type eventFilterFlags struct {
	workspaceID string
	actor       string
	kind        string
	limit       int
	since       int64
}

func (f *eventFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.workspaceID, "workspace", "w", "", "Filter by workspace id")
	cmd.Flags().StringVar(&f.actor, "actor", "", "Filter by acting user id")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Filter by kind")
	cmd.Flags().IntVar(&f.limit, "limit", 50, "Max events (<= 1000)")
	cmd.Flags().Int64Var(&f.since, "since-id", 0, "Only events with id > since-id")
}

func (f *eventFilterFlags) params(desc bool) store.ListEventsParams {
	return store.ListEventsParams{
		WorkspaceID: f.workspaceID,
		Actor:       f.actor,
		Kind:        f.kind,
		SinceID:     f.since,
		Limit:       f.limit,
		Desc:        desc,
	}
}

func newEventsListCmd() *cobra.Command {
	var (
		filter eventFilterFlags
		asc    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events (filterable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var events []*models.Event
			if err := withDB(func(db *DB) error {
				ev, err := store.ListEvents(db, filter.params(!asc))
				if err != nil {
					return err
				}
				events = ev
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Workspace string          `json:"workspace_id,omitempty"`
				Actor     string          `json:"actor,omitempty"`
				Kind      string          `json:"kind,omitempty"`
				Since     int64           `json:"since_id,omitempty"`
				Count     int             `json:"count"`
				Events    []*models.Event `json:"events"`
			}
			return printSuccess(cmd, resp{
				Workspace: filter.workspaceID,
				Actor:     filter.actor,
				Kind:      filter.kind,
				Since:     filter.since,
				Count:     len(events),
				Events:    events,
			})
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&asc, "asc", false, "Sort oldest first (default newest first)")
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var (
		filter   eventFilterFlags
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Poll for new events and print them as JSON Lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := outputConfig(cmd)
			cfg.Pretty = false

			return withDB(func(db *DB) error {
				for {
					events, err := store.ListEvents(db, filter.params(false))
					if err != nil {
						return err
					}
					for _, e := range events {
						if e.ID > filter.since {
							filter.since = e.ID
						}
						if err := output.PrintWith(cfg, e); err != nil {
							return err
						}
					}
					if once {
						return nil
					}

					select {
					case <-ctx.Done():
						return nil
					case <-time.After(interval):
					}
				}
			})
		},
	}

	filter.register(cmd)
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Poll interval")
	cmd.Flags().BoolVar(&once, "once", false, "Fetch once and exit")
	return cmd
}
