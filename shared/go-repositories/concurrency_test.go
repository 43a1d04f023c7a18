package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tropay/tenant-service/shared/go-models"
)

type widget struct {
	models.Versioned
	ID    string
	Count int
}

func (w *widget) GetID() string { return w.ID }

// widgetTable is a single-row table with a version column.
type widgetTable struct {
	row       widget
	conflicts int
	updates   int
}

func (tbl *widgetTable) get(_ context.Context, id string) (*widget, error) {
	if id != tbl.row.ID {
		return nil, nil
	}
	c := tbl.row
	return &c, nil
}

func (tbl *widgetTable) update(_ context.Context, w *widget, expected int64) (pgconn.CommandTag, error) {
	tbl.updates++
	if tbl.conflicts > 0 {
		tbl.conflicts--
		tbl.row.RowVersion++
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if tbl.row.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	tbl.row = *w
	tbl.row.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func incr(w *widget) error {
	w.Count++
	return nil
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt", func(t *testing.T) {
		tbl := &widgetTable{row: widget{ID: "w1", Versioned: models.Versioned{RowVersion: 1}}}
		require.NoError(t, WithRetry[*widget](ctx, 3, "w1", tbl.get, tbl.update, incr))
		assert.Equal(t, 1, tbl.row.Count)
		assert.Equal(t, int64(2), tbl.row.RowVersion)
	})

	t.Run("retries after a conflict", func(t *testing.T) {
		tbl := &widgetTable{row: widget{ID: "w1", Versioned: models.Versioned{RowVersion: 1}}, conflicts: 2}
		require.NoError(t, WithRetry[*widget](ctx, 3, "w1", tbl.get, tbl.update, incr))
		assert.Equal(t, 1, tbl.row.Count)
		assert.Equal(t, 3, tbl.updates)
	})

	t.Run("gives up under contention", func(t *testing.T) {
		tbl := &widgetTable{row: widget{ID: "w1"}, conflicts: 5}
		err := WithRetry[*widget](ctx, 3, "w1", tbl.get, tbl.update, incr)
		assert.ErrorContains(t, err, "too much contention")
	})

	t.Run("missing row", func(t *testing.T) {
		tbl := &widgetTable{row: widget{ID: "w1"}}
		err := WithRetry[*widget](ctx, 3, "w2", tbl.get, tbl.update, incr)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("mutate error aborts", func(t *testing.T) {
		tbl := &widgetTable{row: widget{ID: "w1"}}
		stop := errors.New("stop")
		err := WithRetry[*widget](ctx, 3, "w1", tbl.get, tbl.update, func(*widget) error { return stop })
		assert.ErrorIs(t, err, stop)
		assert.Zero(t, tbl.updates)
	})
}
