package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsMetalPatents(t *testing.T) {
	c := Default()

	cols := c.Collections()
	require.Len(t, cols, 1)
	assert.Equal(t, "metal-patents", cols[0].ID)
	assert.Len(t, cols[0].Documents, 10)

	col, err := c.Collection("metal-patents")
	require.NoError(t, err)
	assert.Equal(t, "Metal Patents", col.Name)
	assert.NotEmpty(t, col.Description)
}

func TestCollection_NotFound(t *testing.T) {
	_, err := Default().Collection("nope")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestDocumentTitle(t *testing.T) {
	c := Default()

	assert.Equal(t,
		"Non-Oriented Electrical Steel Sheet with Superior Core Loss Properties",
		c.DocumentTitle("EP1816226_A1.pdf"))

	// unknown files fall back to the stem
	assert.Equal(t, "EP0000000_B2", c.DocumentTitle("EP0000000_B2.pdf"))
	assert.Equal(t, "report", c.DocumentTitle("uploads/report.pdf"))
}

func TestCollectionOf(t *testing.T) {
	c := Default()

	id, ok := c.CollectionOf("EP2278034_A1.pdf")
	assert.True(t, ok)
	assert.Equal(t, "metal-patents", id)

	_, ok = c.CollectionOf("missing.pdf")
	assert.False(t, ok)
}

func TestDocuments_UnknownCollectionReturnsAll(t *testing.T) {
	c, err := New([]Collection{
		{ID: "a", Documents: []Document{{Filename: "a1.pdf"}}},
		{ID: "b", Documents: []Document{{Filename: "b1.pdf"}, {Filename: "b2.pdf"}}},
	})
	require.NoError(t, err)

	assert.Len(t, c.Documents("b"), 2)
	assert.Len(t, c.Documents(""), 3)
	assert.Len(t, c.Documents("zzz"), 3)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Collection{{ID: "x"}, {ID: "x"}})
	assert.Error(t, err)

	_, err = New([]Collection{{Name: "no id"}})
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`collections:
  - id: jira-archive
    name: Jira Archive
    description: Exported tickets
    documents:
      - filename: TIDE-421.pdf
        title: Market intelligence integration
        description: Ticket export
`)
	require.NoError(t, os.WriteFile(p, data, 0o644))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Market intelligence integration", c.DocumentTitle("TIDE-421.pdf"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "EP1_A1", Stem("EP1_A1.pdf"))
	assert.Equal(t, "EP1_A1", Stem(`C:\docs\EP1_A1.pdf`))
	assert.Equal(t, "notes", Stem("notes"))
	assert.Equal(t, "", Stem(""))
}
