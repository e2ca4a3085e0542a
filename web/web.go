// Package web holds the embedded HTML templates for every page the app
// renders. All user-controlled strings (task text, usernames, search
// terms) go through html/template's contextual escaping.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded template set. Panics on a malformed
// template, which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.ParseFS(files, "templates/*.html"))
}
