// Package templates embeds the HTML templates pages are rendered with.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
