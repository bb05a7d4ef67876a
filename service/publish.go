package service

import (
	"strings"
	"time"

	"readlog/models"
)

// PublishRequest is the nested payload sent to the user's Micropub endpoint
// for a create. It round-trips through the endpoint as a single JSON object.
type PublishRequest struct {
	Type       []string        `json:"type"`
	Properties EntryProperties `json:"properties"`
}

type EntryProperties struct {
	Summary    string   `json:"summary"`
	ReadStatus string   `json:"read-status"`
	ReadOf     Citation `json:"read-of"`
	Visibility string   `json:"visibility"`
	Published  string   `json:"published,omitempty"`
	Category   []string `json:"category,omitempty"`
}

// Citation describes the work being read.
type Citation struct {
	Type       []string           `json:"type"`
	Properties CitationProperties `json:"properties"`
}

type CitationProperties struct {
	Name   string `json:"name"`
	Author string `json:"author,omitempty"`
	UID    string `json:"uid,omitempty"`
}

// DeleteRequest asks the endpoint to remove a previously published post.
type DeleteRequest struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

// BuildEntryRequest maps an entry into its publish payload. Pure and
// deterministic; the DOI takes precedence over the ISBN for both the summary
// suffix and the citation uid, never both.
func BuildEntryRequest(e *models.Entry) PublishRequest {
	cite := Citation{
		Type: []string{"cited-work"},
		Properties: CitationProperties{
			Name:   e.Title,
			Author: e.Authors,
		},
	}
	switch {
	case e.DOI != "":
		cite.Properties.UID = e.DOIRef()
	case e.ISBN != "":
		cite.Properties.UID = "isbn:" + e.ISBN
	}

	props := EntryProperties{
		Summary:    Summary(e),
		ReadStatus: e.ReadStatus,
		ReadOf:     cite,
		Visibility: e.Visibility,
		Category:   e.Categories(),
	}
	if e.Published != nil {
		props.Published = e.Published.Format(time.RFC3339)
	}

	return PublishRequest{
		Type:       []string{"reading-entry"},
		Properties: props,
	}
}

// BuildDeleteRequest maps a canonical URL into the remote delete action.
func BuildDeleteRequest(url string) DeleteRequest {
	return DeleteRequest{Action: "delete", URL: url}
}

// Summary builds the human-readable line for an entry, e.g.
// "Finished reading: Dune by Frank Herbert, ISBN: 9780441013593".
func Summary(e *models.Entry) string {
	label, ok := models.StatusLabels[e.ReadStatus]
	if !ok {
		label = e.ReadStatus
	}
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(e.Title)
	if e.Authors != "" {
		b.WriteString(" by ")
		b.WriteString(e.Authors)
	}
	switch {
	case e.DOI != "":
		b.WriteString(", ")
		b.WriteString(e.DOIRef())
	case e.ISBN != "":
		b.WriteString(", ISBN: ")
		b.WriteString(e.ISBN)
	}
	return b.String()
}
