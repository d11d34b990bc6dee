package pro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTypes(t *testing.T) {
	preamble := splitLines("MODEL,TERM\nVARIABLE_TYPES,T1,I3,N8,Ddd/mm/yyyy,S12\nVARIABLE_TYPES,S1,S1,S1,S1,S1")
	header := []string{"!", "POL", "AGE", "PREM", "DATE", "NAME"}

	decl, err := ExtractTypes(preamble, header, ',')
	require.NoError(t, err)

	assert.True(t, decl.Found)
	assert.False(t, decl.Misaligned())
	assert.Equal(t, TypeMap{
		"AGE":  {Kind: KindInteger},
		"PREM": {Kind: KindNumeric},
		"DATE": {Kind: KindDate, ExcelPattern: "dd/mm/yyyy", Pattern: "%d/%m/%Y"},
		"NAME": {Kind: KindString},
	}, decl.Types)
	assert.Equal(t, map[string]string{"DATE": "%d/%m/%Y"}, decl.DatePatterns)

	_, hasPol := decl.Types["POL"]
	assert.False(t, hasPol, "T codes get no forced type")
}

func TestExtractTypes_NoDeclaration(t *testing.T) {
	decl, err := ExtractTypes(splitLines("MODEL,TERM"), []string{"!", "A"}, ',')
	require.NoError(t, err)
	assert.False(t, decl.Found)
	assert.Empty(t, decl.Types)
	assert.Empty(t, decl.DatePatterns)

	decl, err = ExtractTypes(nil, []string{"!", "A"}, ',')
	require.NoError(t, err)
	assert.Empty(t, decl.Types)
}

func TestExtractTypes_DuplicateSuffix(t *testing.T) {
	preamble := splitLines("VARIABLE_TYPES,I3.1,I3.2,Dyyyy.mm.dd")
	decl, err := ExtractTypes(preamble, []string{"!", "A", "B", "C"}, ',')
	require.NoError(t, err)

	assert.Equal(t, KindInteger, decl.Types["A"].Kind)
	assert.Equal(t, KindInteger, decl.Types["B"].Kind)
	assert.Equal(t, "yyyy.mm.dd", decl.Types["C"].ExcelPattern)
	assert.Equal(t, "%Y.%m.%d", decl.DatePatterns["C"])
}

func TestExtractTypes_Misaligned(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		header    []string
		wantTypes []string
		declared  int
		columns   int
	}{
		{
			name:      "more codes than columns",
			line:      "VARIABLE_TYPES,I1,I1,I1",
			header:    []string{"!", "A", "B"},
			wantTypes: []string{"A", "B"},
			declared:  3,
			columns:   2,
		},
		{
			name:      "fewer codes than columns",
			line:      "VARIABLE_TYPES,N1",
			header:    []string{"!", "A", "B", "C"},
			wantTypes: []string{"A"},
			declared:  1,
			columns:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl, err := ExtractTypes(splitLines(tt.line), tt.header, ',')
			require.NoError(t, err)
			assert.True(t, decl.Misaligned())
			assert.Equal(t, tt.declared, decl.Declared)
			assert.Equal(t, tt.columns, decl.Columns)
			assert.Len(t, decl.Types, len(tt.wantTypes))
			for _, name := range tt.wantTypes {
				assert.Contains(t, decl.Types, name)
			}
		})
	}
}

func TestExtractTypes_UnparseableDatePattern(t *testing.T) {
	decl, err := ExtractTypes(splitLines("VARIABLE_TYPES,Dqq#!"), []string{"!", "WHEN"}, ',')
	require.NoError(t, err)

	ct, ok := decl.Types["WHEN"]
	require.True(t, ok)
	assert.Equal(t, KindString, ct.ReadKind())
	assert.Equal(t, "qq#!", ct.ExcelPattern)
}

func TestExtractTypes_CaseSensitiveCodes(t *testing.T) {
	decl, err := ExtractTypes(splitLines("VARIABLE_TYPES,s1,n2,i3,d4"), []string{"!", "A", "B", "C", "D"}, ',')
	require.NoError(t, err)
	assert.Empty(t, decl.Types)
}

func TestDeclaration_Kind(t *testing.T) {
	tests := map[string]Kind{
		"S10":       KindString,
		"N8":        KindNumeric,
		"I2":        KindInteger,
		"Dyyyy":     KindDate,
		"T7":        KindInferred,
		"":          KindInferred,
		"VARIABLE":  KindInferred,
	}
	for code, want := range tests {
		assert.Equal(t, want, Declaration{Code: code}.Kind(), "code %q", code)
	}
}
