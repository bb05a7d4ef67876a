// Package templates holds the embedded HTML templates: the public entry
// fragment written by the render cache and the new-post form.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
