// Package web embeds the console's templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

// Templates holds the layouts, partials and pages.
//
//go:embed templates
var Templates embed.FS

// TemplateGlobs are parsed in order: layouts, partials, then pages.
var TemplateGlobs = []string{
	"templates/layouts/*.html",
	"templates/partials/*.html",
	"templates/pages/*.html",
}

//go:embed static
var static embed.FS

// Static returns the asset tree rooted at static/, as served under /static/.
func Static() (fs.FS, error) {
	return fs.Sub(static, "static")
}
