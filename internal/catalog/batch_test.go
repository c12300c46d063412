package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

const sampleBatch = `
collections:
  - collection_title: Occupy Movement
    WALK_collection_folder: WALK_occupy
    institution: Internet Archive
    average_degree: 2.5
seeds:
  - collection_title: Occupy Movement
    WALK_collection_folder: WALK_occupy
    seed_name: occupywallst.org
    first_crawl_date: 2011-09-20
    capture_count: 120
  - collection_title: Occupy Movement
    WALK_collection_folder: WALK_occupy
    seed_name: occupytogether.org
`

func TestParseBatch(t *testing.T) {
	b, err := ParseBatch(strings.NewReader(sampleBatch))
	require.NoError(t, err)
	require.Len(t, b.Collections, 1)
	require.Len(t, b.Seeds, 2)

	assert.Equal(t, "Internet Archive", b.Collections[0]["institution"])
	assert.Equal(t, 2.5, b.Collections[0]["average_degree"])
	assert.Equal(t, "2011-09-20", b.Seeds[0][types.FieldFirstCrawlDate])
	n, ok := b.Seeds[0].Int(types.FieldCaptureCount)
	assert.True(t, ok)
	assert.Equal(t, 120, n)
}

func TestParseBatchAcceptsJSON(t *testing.T) {
	b, err := ParseBatch(strings.NewReader(`{"seeds": [{"collection_title": "C1", "WALK_collection_folder": "F1", "seed_name": "S1"}]}`))
	require.NoError(t, err)
	assert.Empty(t, b.Collections)
	require.Len(t, b.Seeds, 1)
}

func TestParseBatchErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing folder", "collections:\n  - collection_title: C1\n", types.ErrMissingKey},
		{"seed missing name", "seeds:\n  - collection_title: C1\n    WALK_collection_folder: F1\n", types.ErrMissingKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatch(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseBatch(strings.NewReader("collections: [unterminated"))
	assert.Error(t, err)
}

func TestParseBatchEmpty(t *testing.T) {
	b, err := ParseBatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, b.Collections)
	assert.Empty(t, b.Seeds)
}

func TestLoadBatch(t *testing.T) {
	eachBackend(t, func(t *testing.T, backend string) {
		c, s, _ := newTestCatalog(t, backend)

		b, err := ParseBatch(strings.NewReader(sampleBatch))
		require.NoError(t, err)

		sum, err := c.Load(b)
		require.NoError(t, err)
		assert.Equal(t, LoadSummary{Inserted: 3}, sum)

		sum, err = c.Load(b)
		require.NoError(t, err)
		assert.Equal(t, LoadSummary{Updated: 3}, sum)

		assert.Len(t, allDocs(t, s, types.SeedsTable), 2)
		assert.Len(t, allDocs(t, s, types.SeedsBackupTable), 2)

		entries, err := c.Listing()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Len(t, entries[0].Seeds, 2)
	})
}

func TestParseBatchKeepsNumericKeyText(t *testing.T) {
	input := `
collections:
  - collection_title: 2011
    WALK_collection_folder: 2011
    average_degree: 2.5
seeds:
  - collection_title: 2011
    WALK_collection_folder: 2011
    seed_name: 1.10
    capture_count: 4
`
	b, err := ParseBatch(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "2011", b.Collections[0][types.FieldCollectionTitle])
	assert.Equal(t, "2011", b.Collections[0][types.FieldCollectionFolder])
	assert.Equal(t, 2.5, b.Collections[0]["average_degree"], "non-key numbers stay numbers")
	assert.Equal(t, "1.10", b.Seeds[0][types.FieldSeedName])
	assert.Equal(t, 4, b.Seeds[0][types.FieldCaptureCount])

	c, _, _ := newTestCatalog(t, types.BackendJSON)
	sum, err := c.Load(b)
	require.NoError(t, err)
	assert.Equal(t, LoadSummary{Inserted: 2}, sum)

	got, err := c.FindCollection("2011", "2011")
	require.NoError(t, err)
	assert.Equal(t, 1, got.EID)
}
