package commands

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/huddle/internal/api"
	"github.com/dotcommander/huddle/internal/models"
	"github.com/dotcommander/huddle/internal/render"
)

func NewMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Post, read, edit and react to messages",
	}

	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageGetCmd())
	cmd.AddCommand(newMessageListCmd())
	cmd.AddCommand(newMessageEditCmd())
	cmd.AddCommand(newMessageDeleteCmd())
	cmd.AddCommand(newMessageReactCmd())
	return cmd
}

// streamFlags select one message stream: a channel, a conversation or the
// thread under a parent message.
type streamFlags struct {
	channelID      string
	conversationID string
	parentID       string
}

func (f *streamFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.channelID, "channel", "c", "", "Channel id")
	cmd.Flags().StringVar(&f.conversationID, "conversation", "", "Conversation id")
	cmd.Flags().StringVar(&f.parentID, "thread", "", "Parent message id; targets its thread")
}

func (f *streamFlags) validate() error {
	if f.channelID == "" && f.conversationID == "" && f.parentID == "" {
		return errors.New("one of --channel, --conversation or --thread is required")
	}
	return nil
}

func newMessageSendCmd() *cobra.Command {
	var (
		workspaceID string
		body        string
		image       string
		stream      streamFlags
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Post a message to a channel, conversation or thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stream.validate(); err != nil {
				return cmdErr(err)
			}
			return withSession(cmd, func(s *session) error {
				id, err := runMutation(s, s.client.CreateMessage(), api.CreateMessageArgs{
					Body:            body,
					Image:           image,
					WorkspaceID:     workspaceID,
					ChannelID:       stream.channelID,
					ConversationID:  stream.conversationID,
					ParentMessageID: stream.parentID,
				}, "")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: id, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace id (required)")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Message text")
	cmd.Flags().StringVar(&image, "image", "", "Attached image URL")
	stream.register(cmd)
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newMessageGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a message with its author, reactions and thread summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				m, err := runQuery(s, s.client.GetMessage(), api.IDArgs{ID: id})
				if err != nil {
					return err
				}
				return printSuccess(cmd, m)
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Message id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMessageListCmd() *cobra.Command {
	var (
		stream streamFlags
		limit  int
		cursor int64
		all    bool
		text   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages newest first, one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stream.validate(); err != nil {
				return cmdErr(err)
			}
			return withSession(cmd, func(s *session) error {
				q := s.client.GetMessages()
				in := api.ListMessagesArgs{
					ChannelID:       stream.channelID,
					ConversationID:  stream.conversationID,
					ParentMessageID: stream.parentID,
					Limit:           limit,
					Cursor:          cursor,
				}

				var (
					msgs []*models.MessageView
					page *models.MessagePage
				)
				for {
					p, err := runQuery(s, q, in)
					if err != nil {
						return err
					}
					page = p
					msgs = append(msgs, p.Messages...)
					if !all || p.IsDone || p.NextCursor == 0 {
						break
					}
					in.Cursor = p.NextCursor
				}

				if text {
					return render.Messages(cmd.OutOrStdout(), msgs, time.Now())
				}

				type resp struct {
					Count      int                   `json:"count"`
					Messages   []*models.MessageView `json:"messages"`
					NextCursor int64                 `json:"next_cursor,omitempty"`
					IsDone     bool                  `json:"is_done"`
				}
				return printSuccess(cmd, resp{
					Count:      len(msgs),
					Messages:   msgs,
					NextCursor: page.NextCursor,
					IsDone:     page.IsDone,
				})
			})
		},
	}

	stream.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default 50, <= 200)")
	cmd.Flags().Int64Var(&cursor, "cursor", 0, "next_cursor from the previous page")
	cmd.Flags().BoolVar(&all, "all", false, "Keep loading pages until the stream is exhausted")
	cmd.Flags().BoolVar(&text, "text", false, "Render for humans instead of JSON")
	return cmd
}

func newMessageEditCmd() *cobra.Command {
	var id, body string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the body of one of your messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.UpdateMessage(), api.UpdateMessageArgs{ID: id, Body: body}, "Message updated")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Message id (required)")
	cmd.Flags().StringVarP(&body, "body", "b", "", "New message text (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newMessageDeleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one of your messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				out, err := runMutation(s, s.client.RemoveMessage(), api.IDArgs{ID: id}, "Message deleted")
				if err != nil {
					return err
				}
				return printSuccess(cmd, idResp{ID: out, RequestID: s.requestID})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Message id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMessageReactCmd() *cobra.Command {
	var (
		id     string
		emojis []string
	)

	cmd := &cobra.Command{
		Use:   "react",
		Short: "Toggle one or more reactions on a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := uniqueTrimmed(emojis)
			if len(values) == 0 {
				return cmdErr(errors.New("--emoji is required"))
			}
			return withSession(cmd, func(s *session) error {
				type toggled struct {
					Value      string `json:"value"`
					Added      bool   `json:"added"`
					ReactionID string `json:"reaction_id,omitempty"`
					RequestID  string `json:"request_id"`
				}

				action := s.client.ToggleReaction()
				defer logTransitions(action)()
				results := make([]toggled, len(values))

				var g errgroup.Group
				for i, v := range values {
					sub := s.sub(i)
					g.Go(func() error {
						reactionID, err := fire(sub, action, api.ToggleReactionArgs{MessageID: id, Value: v}, "")
						if err != nil {
							return err
						}
						results[i] = toggled{Value: v, Added: reactionID != "", ReactionID: reactionID, RequestID: sub.requestID}
						return nil
					})
				}
				if err := g.Wait(); err != nil {
					return err
				}

				type resp struct {
					MessageID string    `json:"message_id"`
					Toggled   []toggled `json:"toggled"`
				}
				return printSuccess(cmd, resp{MessageID: id, Toggled: results})
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Message id (required)")
	cmd.Flags().StringArrayVarP(&emojis, "emoji", "e", nil, "Reaction value, repeatable (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// uniqueTrimmed drops blanks and repeats, keeping first-seen order. A value
// given twice would otherwise toggle itself back off.
func uniqueTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
