package models

import (
	"strings"
	"time"
)

// Read status values an entry can carry.
const (
	StatusToRead   = "to-read"
	StatusReading  = "reading"
	StatusFinished = "finished"
)

var ValidStatuses = []string{StatusToRead, StatusReading, StatusFinished}

// Visibility values an entry can carry. Public entries appear everywhere,
// unlisted entries resolve by direct link only, private entries are never
// served to readers.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityPrivate  = "private"
)

// StatusLabels maps a read status to the human label used in post summaries.
var StatusLabels = map[string]string{
	StatusToRead:   "Want to read",
	StatusReading:  "Currently reading",
	StatusFinished: "Finished reading",
}

func ValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Entry is one reading record. URL is the canonical URL assigned by the
// owner's Micropub endpoint; it is set only after a successful remote publish
// and never cleared by the post workflow.
type Entry struct {
	ID               int64      `bson:"_id" json:"id"`
	UserID           int64      `bson:"userId" json:"userId"`
	Title            string     `bson:"title" json:"title"`
	Authors          string     `bson:"authors,omitempty" json:"authors,omitempty"`
	ReadStatus       string     `bson:"readStatus" json:"readStatus"`
	ISBN             string     `bson:"isbn,omitempty" json:"isbn,omitempty"` // normalized 13-digit form
	DOI              string     `bson:"doi,omitempty" json:"doi,omitempty"`
	Category         string     `bson:"category,omitempty" json:"category,omitempty"` // comma-delimited tags, order preserved
	Visibility       string     `bson:"visibility" json:"visibility"`
	Published        *time.Time `bson:"published,omitempty" json:"published,omitempty"`
	MicropubResponse string     `bson:"micropubResponse,omitempty" json:"-"`
	MicropubSuccess  bool       `bson:"micropubSuccess" json:"micropubSuccess"`
	URL              string     `bson:"url,omitempty" json:"url,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
}

// IsPublished reports whether the entry completed a remote publish. Published
// entries are never re-submitted; retry is rejected for them.
func (e *Entry) IsPublished() bool {
	return e.URL != ""
}

// Listed reports whether the entry appears on public listings such as the
// ISBN stream.
func (e *Entry) Listed() bool {
	return e.Visibility == VisibilityPublic
}

// Viewable reports whether the entry may be served to readers other than the
// owner. Unlisted entries are viewable by direct link but never listed.
func (e *Entry) Viewable() bool {
	return e.Visibility == VisibilityPublic || e.Visibility == VisibilityUnlisted
}

// DOIRef returns the DOI in its display and citation form, with the "doi:"
// prefix added when the stored value lacks one.
func (e *Entry) DOIRef() string {
	if e.DOI == "" || strings.HasPrefix(e.DOI, "doi:") {
		return e.DOI
	}
	return "doi:" + e.DOI
}

// Categories splits the stored delimited category string into ordered tags.
func (e *Entry) Categories() []string {
	if e.Category == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(e.Category, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeCategory reduces a raw comma-separated tag string to its stored
// form: trimmed tags, empties dropped, order preserved.
func NormalizeCategory(raw string) string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return strings.Join(tags, ",")
}

// DatetimeWithOffset interprets naive as wall-clock time at the given UTC
// offset in minutes (east positive), yielding an absolute timestamp.
func DatetimeWithOffset(naive time.Time, offsetMinutes int) time.Time {
	loc := time.FixedZone("", offsetMinutes*60)
	return time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), 0, loc)
}
