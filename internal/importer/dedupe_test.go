package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"membership-hub/internal/importer"
)

func TestIndexNormalizesOnBothSides(t *testing.T) {
	t.Parallel()

	idx := importer.NewIndex()
	idx.Add("  Ali@Example.COM  ")

	assert.True(t, idx.Has("ali@example.com"))
	assert.True(t, idx.Has("ALI@example.com "))
	assert.False(t, idx.Has("other@example.com"))
	assert.Equal(t, 1, idx.Len())
}

func TestIndexSeedAndBlankEmails(t *testing.T) {
	t.Parallel()

	idx := importer.NewIndex()
	idx.Seed([]string{"a@x.com", "B@X.com", "", "  "})

	assert.Equal(t, 2, idx.Len(), "blank emails must not occupy the index")
	assert.True(t, idx.Has("b@x.com"))
}
