package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"readlog/models"
	"readlog/utils"
)

// Field allow-lists. A submitted form containing any key outside the list
// rejects the whole request before anything is persisted.
var newPostFields = map[string]bool{
	"title":       true,
	"authors":     true,
	"read_status": true,
	"isbn":        true,
	"doi":         true,
	"category":    true,
	"visibility":  true,
	"published":   true,
	"tz_offset":   true,
}

var deletePostFields = map[string]bool{
	"confirm":          true,
	"remove_from_site": true,
}

func validFields(form url.Values, allowed map[string]bool) bool {
	for k := range form {
		if !allowed[k] {
			return false
		}
	}
	return true
}

// Accepted layouts for the published field. Parsing is strict: anything that
// doesn't match exactly is a validation error.
var publishedLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parsePublished(s string) (time.Time, bool) {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// validateNewPost runs every check and collects every failure; it never stops
// at the first error. Messages are display strings, not codes.
func validateNewPost(form url.Values) []string {
	var errs []string
	status := form.Get("read_status")
	switch {
	case status == "":
		errs = append(errs, "Please select a read status.")
	case !models.ValidStatus(status):
		errs = append(errs, "Please select a valid read status.")
	}
	if strings.TrimSpace(form.Get("title")) == "" {
		errs = append(errs, "Please enter a title.")
	}
	if isbn := strings.TrimSpace(form.Get("isbn")); isbn != "" {
		if _, ok := utils.NormalizeISBN(isbn); !ok {
			errs = append(errs, "The ISBN entered is not valid.")
		}
	}
	if pub := strings.TrimSpace(form.Get("published")); pub != "" {
		if _, ok := parsePublished(pub); !ok {
			errs = append(errs, "The publish date entered is not valid.")
		}
	}
	if off := strings.TrimSpace(form.Get("tz_offset")); off != "" {
		if _, err := strconv.Atoi(off); err != nil {
			errs = append(errs, "The timezone offset is not valid.")
		}
	}
	return errs
}

// validateDeletePost requires an explicit confirmation; absence or anything
// other than "yes" is an error.
func validateDeletePost(form url.Values) []string {
	if form.Get("confirm") != "yes" {
		return []string{"Please confirm you want to delete this post."}
	}
	return nil
}
