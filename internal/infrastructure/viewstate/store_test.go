package viewstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(":memory:")
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg := TableConfig{
		Columns: []ColumnConfig{
			{Key: "number", Visible: true},
			{Key: "customer", Visible: true, Width: 240},
			{Key: "status", Visible: false},
		},
		SortBy:   "number",
		SortDir:  "desc",
		PageSize: 50,
	}
	require.NoError(t, s.Save(ctx, "user-1", "invoices", cfg))

	loaded, err := s.Load(ctx, "user-1", "invoices")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cfg.Columns, loaded.Columns)
	assert.Equal(t, "desc", loaded.SortDir)
	assert.Equal(t, 50, loaded.PageSize)
}

func TestStore_FiltersAreNotPersisted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	cfg := TableConfig{
		Columns: []ColumnConfig{{Key: "number", Visible: true}},
		Filters: map[string]string{"status": "DRAFT"},
	}
	require.NoError(t, s.Save(ctx, "user-1", "quotations", cfg))

	loaded, err := s.Load(ctx, "user-1", "quotations")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Nil(t, loaded.Filters)
}

func TestStore_UpsertPerUserAndScreen(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "user-1", "invoices", TableConfig{SortBy: "number"}))
	require.NoError(t, s.Save(ctx, "user-1", "invoices", TableConfig{SortBy: "customer"}))
	require.NoError(t, s.Save(ctx, "user-2", "invoices", TableConfig{SortBy: "status"}))

	loaded, err := s.Load(ctx, "user-1", "invoices")
	require.NoError(t, err)
	assert.Equal(t, "customer", loaded.SortBy)

	other, err := s.Load(ctx, "user-2", "invoices")
	require.NoError(t, err)
	assert.Equal(t, "status", other.SortBy)
}

func TestStore_MissingAndReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	loaded, err := s.Load(ctx, "user-1", "receipts")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, s.Save(ctx, "user-1", "receipts", TableConfig{SortBy: "date"}))
	require.NoError(t, s.Reset(ctx, "user-1", "receipts"))

	loaded, err = s.Load(ctx, "user-1", "receipts")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
