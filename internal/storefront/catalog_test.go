package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zencartio/zencart/internal/domain"
)

func tags(ids ...int64) []domain.Tag {
	out := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Tag{ID: id})
	}
	return out
}

func TestTagsSubset(t *testing.T) {
	assert.True(t, TagsSubset(tags(1), tags(1, 2)))
	assert.True(t, TagsSubset(tags(1, 2), tags(1, 2, 3)))
	assert.False(t, TagsSubset(tags(1, 4), tags(1, 2)))
	assert.False(t, TagsSubset(tags(1), nil))
}

func TestTagsSubsetEmptyCategoryMatchesAll(t *testing.T) {
	assert.True(t, TagsSubset(nil, tags(1, 2)))
	assert.True(t, TagsSubset(nil, nil))
}

func TestSubdomainSlug(t *testing.T) {
	assert.Equal(t, "acme", SubdomainSlug("acme.zencart.io", "zencart.io"))
	assert.Equal(t, "acme", SubdomainSlug("ACME.zencart.io:8080", "zencart.io"))
	assert.Equal(t, "", SubdomainSlug("zencart.io", "zencart.io"))
	assert.Equal(t, "", SubdomainSlug("www.zencart.io", "zencart.io"))
	assert.Equal(t, "", SubdomainSlug("a.b.zencart.io", "zencart.io"))
	assert.Equal(t, "", SubdomainSlug("evil.com", "zencart.io"))
}
