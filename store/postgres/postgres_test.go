package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/store"
)

func newMockStore(t *testing.T) (*PostgresFlowStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFlowStoreWithPool(mock, ""), mock
}

func TestPostgresStoreInitSchema(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS flows").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSave(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO flows").
		WithArgs("f1", "qa flow", pgxmock.AnyArg(), true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Save(context.Background(), "f1", &store.Record{
		Flow:  &flow.Document{ID: "f1", Name: "qa flow"},
		Built: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoad(t *testing.T) {
	s, mock := newMockStore(t)

	flowJSON := []byte(`{"id":"f1","name":"qa flow","nodes":[]}`)
	mock.ExpectQuery("SELECT flow, built, saved_at").
		WithArgs("f1").
		WillReturnRows(pgxmock.NewRows([]string{"flow", "built", "saved_at"}).
			AddRow(flowJSON, false, time.Now()))

	record, err := s.Load(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "qa flow", record.Flow.Name)
	assert.False(t, record.Built)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT flow, built, saved_at").
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"flow", "built", "saved_at"}))

	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStoreList(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("f2").AddRow("f1"))

	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"f2", "f1"}, ids)
}

func TestPostgresStoreDelete(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM flows").
		WithArgs("f1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.Delete(context.Background(), "f1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
