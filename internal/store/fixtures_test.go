package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/huddle/internal/models"
)

type fixture struct {
	owner     *models.User
	guest     *models.User
	workspace *models.Workspace
	admin     *models.Member
	member    *models.Member
	channel   *models.Channel
}

// seed creates a workspace with an admin, a plain member and one channel.
func seed(t *testing.T, db *sql.DB) fixture {
	t.Helper()
	var f fixture
	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		var err error
		if f.owner, err = CreateUserTx(tx, "Ada", "ada@example.com", ""); err != nil {
			return err
		}
		if f.guest, err = CreateUserTx(tx, "Grace", "grace@example.com", "https://img/grace.png"); err != nil {
			return err
		}
		if f.workspace, err = CreateWorkspaceTx(tx, "Engineering", f.owner.ID); err != nil {
			return err
		}
		if f.admin, err = CreateMemberTx(tx, f.owner.ID, f.workspace.ID, models.RoleAdmin); err != nil {
			return err
		}
		if f.member, err = CreateMemberTx(tx, f.guest.ID, f.workspace.ID, models.RoleMember); err != nil {
			return err
		}
		f.channel, err = CreateChannelTx(tx, f.workspace.ID, "general")
		return err
	}))
	return f
}

func postMessage(t *testing.T, db *sql.DB, m models.Message) *models.Message {
	t.Helper()
	var out *models.Message
	require.NoError(t, Transact(db, func(tx *sql.Tx) error {
		var err error
		out, err = CreateMessageTx(tx, &m)
		return err
	}))
	return out
}
