package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "sf,classics", NormalizeCategory(" sf , classics "))
	assert.Equal(t, "a,b,c", NormalizeCategory("a,,b, ,c"))
	assert.Equal(t, "", NormalizeCategory("  ,  "))
	assert.Equal(t, "", NormalizeCategory(""))
}

func TestCategoriesPreservesOrder(t *testing.T) {
	e := Entry{Category: "zeta,alpha,mid"}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, e.Categories())

	empty := Entry{}
	assert.Nil(t, empty.Categories())
}

func TestDatetimeWithOffset(t *testing.T) {
	naive := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	got := DatetimeWithOffset(naive, -300)
	assert.Equal(t, "2024-01-02T15:04:00-05:00", got.Format(time.RFC3339))

	utc := DatetimeWithOffset(naive, 0)
	assert.Equal(t, "2024-01-02T15:04:00Z", utc.Format(time.RFC3339))
}

func TestDOIRef(t *testing.T) {
	assert.Equal(t, "doi:10.1000/xyz", (&Entry{DOI: "10.1000/xyz"}).DOIRef())
	assert.Equal(t, "doi:10.1000/xyz", (&Entry{DOI: "doi:10.1000/xyz"}).DOIRef())
	assert.Equal(t, "", (&Entry{}).DOIRef())
}

func TestIsPublished(t *testing.T) {
	assert.False(t, (&Entry{}).IsPublished())
	assert.False(t, (&Entry{MicropubResponse: "accepted", MicropubSuccess: false}).IsPublished())
	assert.True(t, (&Entry{URL: "https://example.com/reads/1"}).IsPublished())
}
