package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
)

func NewChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "channel",
		Aliases: []string{"ch"},
		Short:   "Manage channels inside a workspace",
	}

	cmd.AddCommand(newChannelCreateCmd())
	cmd.AddCommand(newChannelGetCmd())
	cmd.AddCommand(newChannelListCmd())
	cmd.AddCommand(newChannelRenameCmd())
	cmd.AddCommand(newChannelDeleteCmd())
	return cmd
}

func newChannelCreateCmd() *cobra.Command {
	var workspaceID, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a channel (admins only; name is lowercased, spaces become dashes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				id, err := runMutation(s, s.client.CreateChannel(), api.CreateChannelArgs{
					WorkspaceID: workspaceID,
					Name:        name,
				}, "Channel created")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: id, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	cmd.Flags().StringVar(&name, "name", "", "Channel name (required)")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newChannelGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				ch, err := runQuery(s, s.client.GetChannel(), api.IDArgs{ID: id})
				if err != nil {
					return err
				}
				return printSuccess(cmd, ch)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Channel id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newChannelListCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a workspace's channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				list, err := runQuery(s, s.client.GetChannels(), api.WorkspaceArgs{WorkspaceID: workspaceID})
				if err != nil {
					return err
				}

				type resp struct {
					WorkspaceID string            `json:"workspace_id"`
					Count       int               `json:"count"`
					Channels    []*models.Channel `json:"channels"`
				}
				return printSuccess(cmd, resp{WorkspaceID: workspaceID, Count: len(list), Channels: list})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newChannelRenameCmd() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a channel (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.UpdateChannel(), api.UpdateChannelArgs{ID: id, Name: name}, "Channel updated")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Channel id (required)")
	cmd.Flags().StringVar(&name, "name", "", "New channel name (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newChannelDeleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a channel and its messages (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.RemoveChannel(), api.IDArgs{ID: id}, "Channel deleted")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Channel id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
