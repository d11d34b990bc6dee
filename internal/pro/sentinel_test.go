package pro

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func fixedToken(tok string) TokenFunc {
	return func() string { return tok }
}

func TestEncodeSentinel(t *testing.T) {
	in := &Table{Columns: []Column{
		{Name: "A", Type: ColumnType{Kind: KindString}, Cells: []any{text("x"), text("y")}},
	}}

	out, token := EncodeSentinel(in, fixedToken("TOKEN"))
	assert.Equal(t, "TOKEN", token)
	require.Len(t, out.Columns, 2)
	assert.Equal(t, MarkerColumnName, out.Columns[0].Name)
	assert.Equal(t, []any{text("TOKEN"), text("TOKEN")}, out.Columns[0].Cells)
	assert.Equal(t, "A", out.Columns[1].Name)

	assert.Len(t, in.Columns, 1, "input must not be modified")
}

func TestEncodeSentinel_FreshTokenPerCall(t *testing.T) {
	in := &Table{Columns: []Column{{Name: "A", Cells: []any{text("x")}}}}

	_, first := EncodeSentinel(in, nil)
	_, second := EncodeSentinel(in, nil)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestReplaceSentinel(t *testing.T) {
	body := []byte("\"TOKEN\",\"a\",1\n\"TOKEN\",\"TOKENISH\",2\n")
	got := ReplaceSentinel(body, "TOKEN")
	assert.Equal(t, "*,\"a\",1\n*,\"TOKENISH\",2\n", string(got))
}

func TestDecodeSentinel(t *testing.T) {
	tests := []struct {
		name     string
		first    []any
		wantDrop bool
	}{
		{name: "all markers", first: []any{text("*"), text("*")}, wantDrop: true},
		{name: "mixed values", first: []any{text("*"), text("x")}, wantDrop: false},
		{name: "empty cell", first: []any{text("*"), pgtype.Text{}}, wantDrop: false},
		{name: "non text cell", first: []any{pgtype.Int8{Int64: 1, Valid: true}}, wantDrop: false},
		{name: "zero rows", first: []any{}, wantDrop: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest := make([]any, len(tt.first))
			for i := range rest {
				rest[i] = text("v")
			}
			in := &Table{Columns: []Column{
				{Name: "!", Cells: tt.first},
				{Name: "B", Cells: rest},
			}}

			out := DecodeSentinel(in)
			if tt.wantDrop {
				require.Len(t, out.Columns, 1)
				assert.Equal(t, "B", out.Columns[0].Name)
			} else {
				assert.Same(t, in, out)
			}
		})
	}
}

func TestDecodeSentinel_NoColumns(t *testing.T) {
	in := &Table{}
	assert.Same(t, in, DecodeSentinel(in))
}
