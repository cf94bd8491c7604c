package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/huddle/internal/api"
)

func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Sign up and inspect the acting user",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserMeCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var name, email, image string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (prints the id to use with --user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				id, err := runMutation(s, s.client.CreateUser(), api.CreateUserArgs{
					Name:  name,
					Email: email,
					Image: image,
				}, "User created")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: id, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address, unique per user (required)")
	cmd.Flags().StringVar(&image, "image", "", "Avatar URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				user, err := runQuery(s, s.client.CurrentUser(), api.NoArgs{})
				if err != nil {
					return err
				}
				return printSuccess(cmd, user)
			})
		},
	}
}
