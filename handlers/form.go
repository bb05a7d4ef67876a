package handlers

import (
	"html/template"
	"net/http"
	"net/url"

	"readlog/models"
	"readlog/templates"
)

var formTmpl = template.Must(template.ParseFS(templates.FS, "form.html"))

// formData carries the new-post form state: submitted values echoed back,
// every collected validation error, and the owner's choices for the selects.
type formData struct {
	Title      string
	Authors    string
	ISBN       string
	DOI        string
	ReadStatus string
	Category   string
	Visibility string
	Published  string
	TzOffset   string

	Errors       []string
	Statuses     []string
	Visibilities []string
}

func newFormData(form url.Values, errs []string, user *models.User) formData {
	return formData{
		Title:        form.Get("title"),
		Authors:      form.Get("authors"),
		ISBN:         form.Get("isbn"),
		DOI:          form.Get("doi"),
		ReadStatus:   form.Get("read_status"),
		Category:     form.Get("category"),
		Visibility:   form.Get("visibility"),
		Published:    form.Get("published"),
		TzOffset:     form.Get("tz_offset"),
		Errors:       errs,
		Statuses:     models.ValidStatuses,
		Visibilities: user.Visibilities(),
	}
}

func renderForm(w http.ResponseWriter, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	formTmpl.ExecuteTemplate(w, "form.html", data)
}
