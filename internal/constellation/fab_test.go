package constellation

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-skychart/internal/catalog"
)

func TestParseFab(t *testing.T) {
	input := `# comment
Ori 2 26207 27989 27989 26727

Cru 1 60718 61084
Xyz 0
`
	figs, err := ParseFab(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, figs, 3)

	assert.Equal(t, "Ori", figs[0].Name)
	assert.Equal(t, [][2]int{{26207, 27989}, {27989, 26727}}, figs[0].Edges)
	assert.Equal(t, "Cru", figs[1].Name)
	assert.Equal(t, [][2]int{{60718, 61084}}, figs[1].Edges)
	assert.Empty(t, figs[2].Edges)
}

func TestParseFab_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"count mismatch", "Ori 2 1 2 3\n", "line 1 (Ori)"},
		{"missing count", "Ori\n", "missing pair count"},
		{"bad count", "Ori x 1 2\n", "bad pair count"},
		{"negative count", "Ori -1\n", "bad pair count"},
		{"non-numeric id", "Ori 1 1 b\n", "non-numeric"},
		{"second line", "Cru 1 1 2\nOri 3 1 2\n", "line 2 (Ori)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFab(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedLine))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFlatten(t *testing.T) {
	figs := []Figure{
		{Name: "A", Edges: [][2]int{{1, 2}, {2, 3}}},
		{Name: "B", Edges: [][2]int{{3, 4}}},
	}

	got := Flatten(figs)
	want := []Edge{
		{Constellation: "A", A: 1, B: 2},
		{Constellation: "A", A: 2, B: 3},
		{Constellation: "B", A: 3, B: 4},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, Flatten(nil))
}

func TestDefault_ResolvesAgainstDefaultCatalog(t *testing.T) {
	figs := Default()
	require.Len(t, figs, 16)

	cat := catalog.Default()
	for _, e := range Flatten(figs) {
		_, okA := cat.Lookup(e.A)
		_, okB := cat.Lookup(e.B)
		assert.True(t, okA, "%s references unknown HIP %d", e.Constellation, e.A)
		assert.True(t, okB, "%s references unknown HIP %d", e.Constellation, e.B)
	}
}

func TestIndianFiguresURL(t *testing.T) {
	u, err := url.Parse(IndianFiguresURL)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.True(t, strings.HasSuffix(u.Path, "/skycultures/indian/constellationship.fab"), u.Path)
}
