package report

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves a report folder written by HTMLReporter.
type Handler struct {
	folder string
	mux    *http.ServeMux
}

func NewHandler(folder string) *Handler {
	mux := http.NewServeMux()
	handler := &Handler{
		folder: folder,
		mux:    mux,
	}

	mux.HandleFunc("/", handler.root)
	mux.Handle("/data/", http.StripPrefix("/data", http.FileServerFS(os.DirFS(filepath.Join(folder, "data")))))

	return handler
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && !strings.HasSuffix(r.URL.Path, "/index.html") {
		http.NotFound(w, r)
		return
	}

	index := filepath.Join(h.folder, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.Error(w, "No report found in "+h.folder, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, index)
}
