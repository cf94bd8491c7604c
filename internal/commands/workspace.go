package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
)

func NewWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Create, join and administer workspaces",
	}

	cmd.AddCommand(newWorkspaceCreateCmd())
	cmd.AddCommand(newWorkspaceGetCmd())
	cmd.AddCommand(newWorkspaceListCmd())
	cmd.AddCommand(newWorkspaceInfoCmd())
	cmd.AddCommand(newWorkspaceRenameCmd())
	cmd.AddCommand(newWorkspaceDeleteCmd())
	cmd.AddCommand(newWorkspaceJoinCmd())
	cmd.AddCommand(newWorkspaceNewCodeCmd())
	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace with a #general channel; you become its admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				id, err := runMutation(s, s.client.CreateWorkspace(), api.CreateWorkspaceArgs{Name: name}, "Workspace created")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: id, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workspace name, 3 to 80 characters (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorkspaceGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a workspace you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				ws, err := runQuery(s, s.client.GetWorkspace(), api.IDArgs{ID: id})
				if err != nil {
					return err
				}
				return printSuccess(cmd, ws)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newWorkspaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the workspaces you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				list, err := runQuery(s, s.client.GetWorkspaces(), api.NoArgs{})
				if err != nil {
					return err
				}

				type resp struct {
					Count      int                 `json:"count"`
					Workspaces []*models.Workspace `json:"workspaces"`
				}
				return printSuccess(cmd, resp{Count: len(list), Workspaces: list})
			})
		},
	}
}

func newWorkspaceInfoCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show a workspace's public name and whether you belong to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				info, err := runQuery(s, s.client.GetWorkspaceInfo(), api.IDArgs{ID: id})
				if err != nil {
					return err
				}
				return printSuccess(cmd, info)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newWorkspaceRenameCmd() *cobra.Command {
	var id, name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename a workspace (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.UpdateWorkspace(), api.UpdateWorkspaceArgs{ID: id, Name: name}, "Workspace updated")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	cmd.Flags().StringVar(&name, "name", "", "New name, 3 to 80 characters (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newWorkspaceDeleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a workspace with its channels, members and messages (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.RemoveWorkspace(), api.IDArgs{ID: id}, "Workspace removed")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newWorkspaceJoinCmd() *cobra.Command {
	var id, code string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a workspace with its join code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.JoinWorkspace(), api.JoinWorkspaceArgs{ID: id, JoinCode: code}, "Workspace joined")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	cmd.Flags().StringVar(&code, "code", "", "Join code, case-insensitive (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newWorkspaceNewCodeCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "new-code",
		Short: "Regenerate a workspace's join code (admins only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.NewJoinCode(), api.IDArgs{ID: id}, "Invite code regenerated")
				if err != nil {
					return err
				}
				ws, err := runQuery(s, s.client.GetWorkspace(), api.IDArgs{ID: out})
				if err != nil {
					return err
				}

				type resp struct {
					ID        string `json:"id"`
					JoinCode  string `json:"join_code"`
					RequestID string `json:"request_id"`
				}
				return printSuccess(cmd, resp{ID: out, JoinCode: ws.JoinCode, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Workspace id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
