package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout/internal/scout"
)

func TestParsePreservesOrder(t *testing.T) {
	t.Parallel()

	const src = `{
		"Zeta": {"Site B": "https://b.example", "Site A": "https://a.example"},
		"Alpha": {"Site C": "https://c.example"}
	}`

	cat, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	cats := cat.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Zeta", cats[0].Name)
	assert.Equal(t, "Alpha", cats[1].Name)
	require.Len(t, cats[0].Sites, 2)
	assert.Equal(t, scout.SiteSpec{Name: "Site B", URL: "https://b.example"}, cats[0].Sites[0])
	assert.Equal(t, scout.SiteSpec{Name: "Site A", URL: "https://a.example"}, cats[0].Sites[1])
	assert.Equal(t, 3, cat.TotalSites())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not an object":   `["a"]`,
		"non-string url":  `{"Cat": {"Site": 42}}`,
		"empty document":  ``,
		"duplicate sites": `{"Cat": {"Site": "https://a.example", "Site": "https://b.example"}}`,
		"empty url":       `{"Cat": {"Site": ""}}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	site := scout.SiteSpec{Name: "Site", URL: "https://example.com"}

	tests := []struct {
		name    string
		catalog *Catalog
		wantErr string
	}{
		{
			name:    "empty catalog",
			catalog: New(nil),
			wantErr: "no categories",
		},
		{
			name: "duplicate categories",
			catalog: New([]Category{
				{Name: "News", Sites: []scout.SiteSpec{site}},
				{Name: "News", Sites: []scout.SiteSpec{site}},
			}),
			wantErr: "duplicate category",
		},
		{
			name: "category without sites",
			catalog: New([]Category{
				{Name: "News"},
			}),
			wantErr: "has no sites",
		},
		{
			name: "valid",
			catalog: New([]Category{
				{Name: "News", Sites: []scout.SiteSpec{site}},
			}),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.catalog.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	t.Parallel()

	cat := Default()
	require.NoError(t, cat.Validate())
	assert.Greater(t, cat.Len(), 5)
	assert.Greater(t, cat.TotalSites(), 20)
}
