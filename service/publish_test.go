package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readlog/models"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		entry models.Entry
		want  string
	}{
		{
			name:  "finished with isbn",
			entry: models.Entry{Title: "Dune", ISBN: "9780441013593", ReadStatus: models.StatusFinished},
			want:  "Finished reading: Dune, ISBN: 9780441013593",
		},
		{
			name:  "doi wins over isbn",
			entry: models.Entry{Title: "Dune", DOI: "10.1000/xyz", ISBN: "9780441013593", ReadStatus: models.StatusFinished},
			want:  "Finished reading: Dune, doi:10.1000/xyz",
		},
		{
			name:  "doi already prefixed",
			entry: models.Entry{Title: "Paper", DOI: "doi:10.1000/xyz", ReadStatus: models.StatusReading},
			want:  "Currently reading: Paper, doi:10.1000/xyz",
		},
		{
			name:  "authors appended",
			entry: models.Entry{Title: "Dune", Authors: "Frank Herbert", ISBN: "9780441013593", ReadStatus: models.StatusToRead},
			want:  "Want to read: Dune by Frank Herbert, ISBN: 9780441013593",
		},
		{
			name:  "no identifier",
			entry: models.Entry{Title: "Some Zine", ReadStatus: models.StatusReading},
			want:  "Currently reading: Some Zine",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(&tt.entry))
		})
	}
}

func TestBuildEntryRequest(t *testing.T) {
	published := models.DatetimeWithOffset(time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC), -300)
	e := &models.Entry{
		Title:      "Dune",
		Authors:    "Frank Herbert",
		ReadStatus: models.StatusFinished,
		ISBN:       "9780441013593",
		Category:   "sf,classics",
		Visibility: "public",
		Published:  &published,
	}
	req := BuildEntryRequest(e)

	assert.Equal(t, []string{"reading-entry"}, req.Type)
	assert.Equal(t, models.StatusFinished, req.Properties.ReadStatus)
	assert.Equal(t, "public", req.Properties.Visibility)
	assert.Equal(t, "Finished reading: Dune by Frank Herbert, ISBN: 9780441013593", req.Properties.Summary)
	assert.Equal(t, "2024-03-01T20:30:00-05:00", req.Properties.Published)
	assert.Equal(t, []string{"sf", "classics"}, req.Properties.Category)

	cite := req.Properties.ReadOf
	assert.Equal(t, []string{"cited-work"}, cite.Type)
	assert.Equal(t, "Dune", cite.Properties.Name)
	assert.Equal(t, "Frank Herbert", cite.Properties.Author)
	assert.Equal(t, "isbn:9780441013593", cite.Properties.UID)
}

func TestBuildEntryRequestDOIPrecedence(t *testing.T) {
	e := &models.Entry{
		Title:      "A Paper",
		ReadStatus: models.StatusReading,
		DOI:        "10.1000/xyz",
		ISBN:       "9780441013593",
		Visibility: "public",
	}
	req := BuildEntryRequest(e)
	assert.Equal(t, "doi:10.1000/xyz", req.Properties.ReadOf.Properties.UID)
	assert.NotContains(t, req.Properties.Summary, "ISBN")
}

func TestBuildEntryRequestOmitsEmptyOptionals(t *testing.T) {
	e := &models.Entry{
		Title:      "Dune",
		ReadStatus: models.StatusToRead,
		Visibility: "public",
	}
	raw, err := json.Marshal(BuildEntryRequest(e))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	props := decoded["properties"].(map[string]any)
	assert.NotContains(t, props, "published")
	assert.NotContains(t, props, "category")

	cite := props["read-of"].(map[string]any)["properties"].(map[string]any)
	assert.NotContains(t, cite, "author")
	assert.NotContains(t, cite, "uid")
}

func TestBuildDeleteRequest(t *testing.T) {
	req := BuildDeleteRequest("https://example.com/reads/42")
	assert.Equal(t, "delete", req.Action)
	assert.Equal(t, "https://example.com/reads/42", req.URL)
}
