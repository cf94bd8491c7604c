package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/api"
)

func NewDMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dm",
		Short: "Direct conversations between two members",
	}

	cmd.AddCommand(newDMOpenCmd())
	return cmd
}

func newDMOpenCmd() *cobra.Command {
	var workspaceID, memberID string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the conversation with a member, creating it on first use",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				id, err := runMutation(s, s.client.CreateOrGetConversation(), api.CreateOrGetConversationArgs{
					WorkspaceID: workspaceID,
					MemberID:    memberID,
				}, "")
				if err != nil {
					return err
				}

				type resp struct {
					ConversationID string `json:"conversation_id"`
					RequestID      string `json:"request_id"`
				}
				return printSuccess(cmd, resp{ConversationID: id, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	cmd.Flags().StringVar(&memberID, "member", "", "The other member's id (required)")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}
