package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTx counts rollbacks; every other pgx.Tx method is unused by
// executeWithRollbackProtection and left to the embedded nil interface.
type recordingTx struct {
	pgx.Tx
	rollbacks int
}

func (t *recordingTx) Rollback(_ context.Context) error {
	t.rollbacks++
	return nil
}

func TestExecuteWithRollbackProtection_SuccessDoesNotRollBack(t *testing.T) {
	m := &TxManager{}
	tx := &recordingTx{}

	err := m.executeWithRollbackProtection(context.Background(), tx, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, tx.rollbacks)
}

func TestExecuteWithRollbackProtection_RollsBackOnError(t *testing.T) {
	m := &TxManager{}
	tx := &recordingTx{}
	boom := errors.New("boom")

	err := m.executeWithRollbackProtection(context.Background(), tx, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestExecuteWithRollbackProtection_RollsBackAndRepanics(t *testing.T) {
	m := &TxManager{}
	tx := &recordingTx{}

	assert.PanicsWithValue(t, "boom", func() {
		_ = m.executeWithRollbackProtection(context.Background(), tx, func(context.Context) error {
			panic("boom")
		})
	})
	assert.Equal(t, 1, tx.rollbacks)
}
