package service

import (
	"bytes"
	"html/template"

	"readlog/models"
	"readlog/templates"
)

var fragmentTmpl = template.Must(template.ParseFS(templates.FS, "entry.html"))

// FragmentData is what the entry fragment template renders. Caching is true
// when the fragment is being written to the static cache rather than served
// inline.
type FragmentData struct {
	Entry   *models.Entry
	Profile *models.User
	Summary string
	Caching bool
}

// RenderFragment renders the public display fragment for an entry.
func RenderFragment(e *models.Entry, profile *models.User, caching bool) ([]byte, error) {
	var buf bytes.Buffer
	data := FragmentData{
		Entry:   e,
		Profile: profile,
		Summary: Summary(e),
		Caching: caching,
	}
	if err := fragmentTmpl.ExecuteTemplate(&buf, "entry.html", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
