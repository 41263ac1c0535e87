// Package web embeds the storefront's HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static
var content embed.FS

// Templates is rooted at the templates directory.
func Templates() fs.FS {
	return mustSub("templates")
}

// Static is rooted at the static directory.
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
