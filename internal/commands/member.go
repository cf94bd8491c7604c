package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
)

func NewMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Inspect and administer workspace members",
	}

	cmd.AddCommand(newMemberMeCmd())
	cmd.AddCommand(newMemberGetCmd())
	cmd.AddCommand(newMemberListCmd())
	cmd.AddCommand(newMemberRoleCmd())
	cmd.AddCommand(newMemberRemoveCmd())
	return cmd
}

func newMemberMeCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show your membership in a workspace (null when not a member)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				m, err := runQuery(s, s.client.CurrentMember(), api.WorkspaceArgs{WorkspaceID: workspaceID})
				if err != nil {
					return err
				}
				return printSuccess(cmd, m)
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newMemberGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a member with their user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				m, err := runQuery(s, s.client.GetMember(), api.IDArgs{ID: id})
				if err != nil {
					return err
				}
				return printSuccess(cmd, m)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Member id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMemberListCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a workspace's members",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				list, err := runQuery(s, s.client.GetMembers(), api.WorkspaceArgs{WorkspaceID: workspaceID})
				if err != nil {
					return err
				}

				type resp struct {
					WorkspaceID string                   `json:"workspace_id"`
					Count       int                      `json:"count"`
					Members     []*models.MemberWithUser `json:"members"`
				}
				return printSuccess(cmd, resp{WorkspaceID: workspaceID, Count: len(list), Members: list})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newMemberRoleCmd() *cobra.Command {
	var id, role string

	cmd := &cobra.Command{
		Use:   "role",
		Short: "Change a member's role (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.UpdateMember(), api.UpdateMemberArgs{
					ID:   id,
					Role: models.Role(role),
				}, "Role changed")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Member id (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role options: admin|member (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newMemberRemoveCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a member, or leave when the id is your own",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.RemoveMember(), api.IDArgs{ID: id}, "Member removed")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Member id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
