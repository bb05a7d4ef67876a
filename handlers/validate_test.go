package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidFields(t *testing.T) {
	ok := url.Values{"title": {"Dune"}, "read_status": {"finished"}}
	assert.True(t, validFields(ok, newPostFields))

	extra := url.Values{"title": {"Dune"}, "admin": {"true"}}
	assert.False(t, validFields(extra, newPostFields))

	assert.True(t, validFields(url.Values{}, newPostFields))
}

func TestValidateNewPostCollectsAllErrors(t *testing.T) {
	form := url.Values{
		"isbn":      {"not-an-isbn-at-all"},
		"published": {"sometime soon"},
	}
	errs := validateNewPost(form)
	// Missing status, missing title, bad isbn, bad date: all reported at once.
	assert.Len(t, errs, 4)
}

func TestValidateNewPostHappyPath(t *testing.T) {
	form := url.Values{
		"read_status": {"finished"},
		"title":       {"Dune"},
		"isbn":        {"978-0-441-01359-3"},
		"published":   {"2024-03-01T20:30"},
		"tz_offset":   {"-300"},
	}
	assert.Empty(t, validateNewPost(form))
}

func TestValidateNewPostStatus(t *testing.T) {
	errs := validateNewPost(url.Values{"read_status": {"devoured"}, "title": {"Dune"}})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "valid read status")
}

func TestValidateNewPostISBNSuperstring(t *testing.T) {
	form := url.Values{
		"read_status": {"reading"},
		"title":       {"Dune"},
		"isbn":        {"ISBN: 9780441013593"},
	}
	errs := validateNewPost(form)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "ISBN")
}

func TestValidateNewPostPublishedLayouts(t *testing.T) {
	base := url.Values{"read_status": {"reading"}, "title": {"Dune"}}
	for _, good := range []string{"2024-03-01T20:30", "2024-03-01 20:30", "2024-03-01", "2024-03-01T20:30:15"} {
		base.Set("published", good)
		assert.Empty(t, validateNewPost(base), good)
	}
	for _, bad := range []string{"03/01/2024", "2024-13-01", "20:30", "yesterday"} {
		base.Set("published", bad)
		assert.Len(t, validateNewPost(base), 1, bad)
	}
}

func TestValidateDeletePost(t *testing.T) {
	assert.Empty(t, validateDeletePost(url.Values{"confirm": {"yes"}}))
	assert.Len(t, validateDeletePost(url.Values{"confirm": {"no"}}), 1)
	assert.Len(t, validateDeletePost(url.Values{}), 1)
}
