package formation

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.js assets/*.css
var embeddedAssets embed.FS

// AssetsFS exposes the browser script and stylesheet that drive repeater rows
// and style field notices.
//
// Typical mount:
//
//	mux.Handle("/formation/",
//	  http.StripPrefix("/formation/",
//	    http.FileServerFS(formation.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
