package commands

import (
	"log/slog"

	"github.com/dotcommander/huddle/internal/mutation"
)

// runMutation fires a one-shot action the way a form submit would: lifecycle
// transitions are logged at debug, the outcome as a toast on stderr. The
// failure is returned so the command can print its error envelope.
func runMutation[In, Out any](s *session, a *mutation.Action[In, Out], in In, toast string) (Out, error) {
	defer logTransitions(a)()
	return fire(s, a, in, toast)
}

// logTransitions logs every status change of a at debug until the returned
// func is called. Subscribe once per action, however many calls share it.
func logTransitions[In, Out any](a *mutation.Action[In, Out]) (unsubscribe func()) {
	return a.Subscribe(func(snap mutation.Snapshot[Out]) {
		slog.Debug("mutation transition", "status", snap.Status.String(), "seq", snap.Seq)
	})
}

// fire calls a without subscribing; the caller owns the transition log.
func fire[In, Out any](s *session, a *mutation.Action[In, Out], in In, toast string) (Out, error) {
	return a.Mutate(s.ctx, in, mutation.Options[Out]{
		OnSuccess: func(Out) {
			if toast != "" {
				slog.Info(toast, "request_id", s.requestID)
			}
		},
		OnError: func(err error) {
			slog.Debug("mutation failed", "error", err.Error(), "request_id", s.requestID)
		},
		ThrowError: true,
	})
}

// runQuery loads q once for in.
func runQuery[In, Out any](s *session, q *mutation.Query[In, Out], in In) (Out, error) {
	return q.Load(s.ctx, in)
}

// idResp is the reply of mutations that return the affected record id.
type idResp struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
}
