package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/features"
	"github.com/dotcommander/huddle/internal/models"
)

func NewFilterCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "filter [pattern]",
		Short: "Fuzzy-find channels and members in a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return withSession(cmd, func(s *session) error {
				var (
					channels []*models.Channel
					members  []*models.MemberWithUser
				)
				ws := api.WorkspaceArgs{WorkspaceID: workspaceID}

				// The first failed load cancels the other.
				g, gctx := errgroup.WithContext(s.ctx)
				gs := s.withContext(gctx)
				g.Go(func() error {
					var err error
					channels, err = runQuery(gs, s.client.GetChannels(), ws)
					return err
				})
				g.Go(func() error {
					var err error
					members, err = runQuery(gs, s.client.GetMembers(), ws)
					return err
				})
				if err := g.Wait(); err != nil {
					return err
				}

				matches := features.FilterConversations(channels, members, pattern)

				type resp struct {
					Pattern string           `json:"pattern"`
					Count   int              `json:"count"`
					Matches []features.Match `json:"matches"`
				}
				return printSuccess(cmd, resp{Pattern: pattern, Count: len(matches), Matches: matches})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}
