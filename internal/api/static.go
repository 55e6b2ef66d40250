package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yegors/co-mag/pkg/logger"
)

// StaticFileHandler serves the map frontend from a directory on disk
type StaticFileHandler struct {
	root   string
	logger *logger.Logger
}

// NewStaticFileHandler creates a new static file handler rooted at dir
func NewStaticFileHandler(dir string, log *logger.Logger) (*StaticFileHandler, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &StaticFileHandler{
		root:   root,
		logger: log.Named("static-handler"),
	}, nil
}

// ServeHTTP serves the requested file. Unknown paths without an extension
// fall back to index.html so client-side routes resolve.
func (h *StaticFileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel := strings.TrimPrefix(filepath.Clean("/"+r.URL.Path), "/")
	if rel == "" {
		rel = "index.html"
	}
	full := filepath.Join(h.root, rel)

	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		h.logger.Warn("Rejected path outside static root", logger.String("path", r.URL.Path))
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	info, err := os.Stat(full)
	switch {
	case err == nil && info.IsDir():
		full = filepath.Join(full, "index.html")
		if _, err := os.Stat(full); err != nil {
			http.NotFound(w, r)
			return
		}
	case os.IsNotExist(err):
		if filepath.Ext(rel) != "" {
			h.logger.Debug("File not found", logger.String("path", full))
			http.NotFound(w, r)
			return
		}
		full = filepath.Join(h.root, "index.html")
	case err != nil:
		h.logger.Error("Failed to stat file", logger.Error(err), logger.String("path", full))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// HTML is always revalidated; assets may be cached briefly
	if strings.HasSuffix(full, ".html") {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}

	http.ServeFile(w, r, full)
}
