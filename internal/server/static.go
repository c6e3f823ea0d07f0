package server

import (
	"io/fs"
	"path"
	"strings"
)

// withoutFiles hides the named top-level files from an FS. The catch-all
// static route serves through it so gated pages are only reachable via
// their gated routes, whatever spelling the request path uses.
type withoutFiles struct {
	fsys   fs.FS
	hidden []string
}

func (w withoutFiles) Open(name string) (fs.File, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	for _, h := range w.hidden {
		// case-insensitive filesystems would serve LEARN.HTML too
		if strings.EqualFold(clean, h) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
	}
	return w.fsys.Open(name)
}
