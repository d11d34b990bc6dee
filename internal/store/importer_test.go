package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/procodec/internal/pro"
)

type fakeCopier struct {
	calls   int
	ident   pgx.Identifier
	columns []string
	rows    [][]any
	err     error
}

func (f *fakeCopier) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	f.calls++
	f.ident = tableName
	f.columns = columnNames
	if f.err != nil {
		return 0, f.err
	}
	for rowSrc.Next() {
		values, err := rowSrc.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, values)
	}
	return int64(len(f.rows)), rowSrc.Err()
}

func policies() *pro.Table {
	return &pro.Table{Columns: []pro.Column{
		{
			Name:  "POL_NO",
			Type:  pro.ColumnType{Kind: pro.KindString},
			Cells: []any{pgtype.Text{String: "P001", Valid: true}, pgtype.Text{String: "P002", Valid: true}},
		},
		{
			Name:  "AGE",
			Type:  pro.ColumnType{Kind: pro.KindInteger},
			Cells: []any{pgtype.Int8{Int64: 42, Valid: true}, pgtype.Int8{}},
		},
	}}
}

func TestImporter_Import(t *testing.T) {
	copier := &fakeCopier{}
	im := NewImporter(copier, "public", NewImportLimiter(1, time.Second), time.Minute)

	n, err := im.Import(context.Background(), "policies", policies())
	require.NoError(t, err)

	assert.Equal(t, int64(2), n)
	assert.Equal(t, 1, copier.calls)
	assert.Equal(t, pgx.Identifier{"public", "policies"}, copier.ident)
	assert.Equal(t, []string{"POL_NO", "AGE"}, copier.columns)
	assert.Equal(t, []any{pgtype.Text{String: "P002", Valid: true}, pgtype.Int8{}}, copier.rows[1])
	assert.Equal(t, 0, im.Limiter().ActiveCount(), "slot released after import")
}

func TestImporter_NoSchema(t *testing.T) {
	copier := &fakeCopier{}
	_, err := NewImporter(copier, "", nil, 0).Import(context.Background(), "policies", policies())
	require.NoError(t, err)
	assert.Equal(t, pgx.Identifier{"policies"}, copier.ident)
}

func TestImporter_NotConfigured(t *testing.T) {
	im := NewImporter(nil, "public", nil, 0)
	assert.False(t, im.Enabled())

	_, err := im.Import(context.Background(), "policies", policies())
	assert.ErrorIs(t, err, ErrDatabaseNotConfigured)
	assert.Equal(t, "IMP001", pro.MapError(err).Code)
}

func TestImporter_InvalidTableName(t *testing.T) {
	copier := &fakeCopier{}
	im := NewImporter(copier, "public", nil, 0)

	for _, name := range []string{"", "drop table", "a;b", "1abc", `x"y`} {
		_, err := im.Import(context.Background(), name, policies())
		assert.ErrorIs(t, err, ErrInvalidTableName, name)
	}
	assert.Zero(t, copier.calls)
}

func TestImporter_RaggedTable(t *testing.T) {
	copier := &fakeCopier{}
	tbl := policies()
	tbl.Columns[1].Cells = tbl.Columns[1].Cells[:1]

	_, err := NewImporter(copier, "public", nil, 0).Import(context.Background(), "policies", tbl)
	assert.Error(t, err)
	assert.Zero(t, copier.calls)
}

func TestImporter_CopyError(t *testing.T) {
	copier := &fakeCopier{err: errors.New("relation does not exist")}
	_, err := NewImporter(copier, "public", nil, 0).Import(context.Background(), "policies", policies())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `copy into "public"."policies"`)
}

func TestImporter_Busy(t *testing.T) {
	limiter := NewImportLimiter(1, 10*time.Millisecond)
	require.True(t, limiter.TryAcquire())
	defer limiter.Release()

	_, err := NewImporter(&fakeCopier{}, "public", limiter, 0).Import(context.Background(), "policies", policies())
	assert.ErrorIs(t, err, ErrTooManyImports)
	assert.Equal(t, "IMP002", pro.MapError(err).Code)
}
