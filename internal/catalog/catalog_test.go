package catalog

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locators(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Locator)
	}
	return out
}

func itemsFor(locs ...string) []Item {
	items := make([]Item, 0, len(locs))
	for _, l := range locs {
		items = append(items, Item{Locator: l})
	}
	return items
}

func TestSortStrategies(t *testing.T) {
	input := itemsFor("p/page10.png", "p/page2.png", "p/page1.png")

	tests := []struct {
		strategy SortStrategy
		id       int
		name     string
		want     []string
	}{
		{&NaturalSortStrategy{}, SortNatural, "Natural", []string{"p/page1.png", "p/page2.png", "p/page10.png"}},
		{&SimpleSortStrategy{}, SortSimple, "Simple", []string{"p/page1.png", "p/page10.png", "p/page2.png"}},
		{&EntryOrderSortStrategy{}, SortEntryOrder, "Entry Order", []string{"p/page10.png", "p/page2.png", "p/page1.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := locators(input)

			assert.Equal(t, tt.want, locators(tt.strategy.Sort(input)))
			assert.Equal(t, tt.id, tt.strategy.ID())
			assert.Equal(t, tt.name, tt.strategy.Name())
			assert.Equal(t, before, locators(input), "input must not be modified")
			assert.Empty(t, tt.strategy.Sort(nil))
		})
	}
}

func TestGetSortStrategy(t *testing.T) {
	assert.Equal(t, SortNatural, GetSortStrategy(SortNatural).ID())
	assert.Equal(t, SortSimple, GetSortStrategy(SortSimple).ID())
	assert.Equal(t, SortEntryOrder, GetSortStrategy(SortEntryOrder).ID())
	assert.Equal(t, SortNatural, GetSortStrategy(99).ID(), "unknown methods fall back to natural")
	assert.Len(t, GetAllSortStrategies(), 3)
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"galleries": [
			{"name": "Energy", "items": [
				{"id": "e1", "locator": "poles/energy/turbine.jpg", "title": "Turbine"},
				{"locator": "poles/energy/grid.jpg"}
			]},
			{"name": "Water", "items": [{"locator": "poles/water/dam.png"}]}
		]
	}`), 0o644))

	galleries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, galleries, 2)

	energy := galleries[0]
	assert.Equal(t, "Energy", energy.Name)
	assert.Equal(t, "e1", energy.Items[0].ID)
	assert.Equal(t, "Turbine", energy.Items[0].Title)
	assert.Equal(t, StableID("poles/energy/grid.jpg"), energy.Items[1].ID)
	assert.Equal(t, "grid", energy.Items[1].Title)

	water, ok := Find(galleries, "water")
	require.True(t, ok)
	assert.Equal(t, "dam", water.Items[0].Title)

	_, ok = Find(galleries, "fire")
	assert.False(t, ok)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
galleries:
  - name: Mobility
    items:
      - locator: poles/mobility/tram.webp
        title: Tram
      - locator: books/v1.zip!pages/002.png
  - items:
      - locator: misc/a.jpg
`), 0o644))

	galleries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, galleries, 2)
	assert.Equal(t, "Tram", galleries[0].Items[0].Title)
	assert.Equal(t, "002", galleries[0].Items[1].Title)
	assert.Equal(t, "Gallery 2", galleries[1].Name)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := LoadFile(write("empty.json", `{"galleries": []}`))
	assert.ErrorIs(t, err, ErrNoGalleries)

	_, err = LoadFile(write("nolocator.json", `{"galleries": [{"name": "A", "items": [{"title": "x"}]}]}`))
	assert.ErrorContains(t, err, "no locator")

	_, err = LoadFile(write("dup.json", `{"galleries": [{"name": "A"}, {"name": "A"}]}`))
	assert.ErrorContains(t, err, "duplicate gallery")

	_, err = LoadFile(write("broken.json", `{"galleries": [`))
	assert.Error(t, err)

	_, err = LoadFile(write("catalog.toml", `x = 1`))
	assert.ErrorContains(t, err, "unsupported catalog format")

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestStableID(t *testing.T) {
	assert.Equal(t, StableID("a.png"), StableID("a.png"))
	assert.NotEqual(t, StableID("a.png"), StableID("b.png"))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"img10.jpg", "img2.png", "img1.webp", "notes.txt", "Upper.PNG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	zipPath := filepath.Join(dir, "book.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range []string{"p/2.png", "p/1.png", "p/readme.md"} {
		_, err := w.Create(name)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	items, err := Scan([]string{dir}, SortNatural)
	require.NoError(t, err)
	assert.Len(t, items, 6)

	single, err := Scan([]string{filepath.Join(dir, "img2.png")}, SortNatural)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "img2", single[0].Title)
	assert.Equal(t, StableID(single[0].Locator), single[0].ID)

	archived, err := Scan([]string{zipPath}, SortNatural)
	require.NoError(t, err)
	assert.Equal(t, []string{zipPath + "!p/1.png", zipPath + "!p/2.png"}, locators(archived))

	_, err = Scan([]string{filepath.Join(dir, "missing")}, SortNatural)
	assert.Error(t, err)
}
