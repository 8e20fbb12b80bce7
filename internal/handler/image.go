package handler

import (
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ImageHandler serves album cover images from a local directory.
type ImageHandler struct {
	dir    string
	logger *slog.Logger
}

func NewImageHandler(dir string, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{dir: dir, logger: logger}
}

// HandleAlbumImage handles GET /images/albums/{filename}. Filenames are
// opaque; anything that could climb out of the image directory is refused.
func (h *ImageHandler) HandleAlbumImage(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, "/\\") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid filename"})
		return
	}

	path := filepath.Join(h.dir, filename)
	f, err := os.Open(path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "image not found"})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "image not found"})
		return
	}

	if ctype := mime.TypeByExtension(filepath.Ext(filename)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, filename, info.ModTime(), f)
}
