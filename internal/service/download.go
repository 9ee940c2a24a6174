package service

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/mmynk/feereceipt/internal/middleware"
	"github.com/mmynk/feereceipt/internal/storage"
	"github.com/mmynk/feereceipt/internal/storage/files"
)

// DownloadHandler serves stored receipt PDFs under DownloadPath. Only
// files recorded in the receipt index are served.
type DownloadHandler struct {
	store  storage.Store
	pdfs   *files.FileStore
	logger *slog.Logger
}

// NewDownloadHandler creates a handler reading from pdfs.
func NewDownloadHandler(store storage.Store, pdfs *files.FileStore, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{store: store, pdfs: pdfs, logger: logger}
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, DownloadPath)
	if err := files.ValidateName(name); err != nil {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	if _, err := h.store.GetReceiptByFilename(r.Context(), name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to look up receipt", "filename", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	f, err := h.pdfs.Open(name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.logger.Warn("Indexed receipt missing on disk", "filename", name)
		http.NotFound(w, r)
		return
	case err != nil:
		h.logger.Error("Failed to open receipt", "filename", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.logger.Error("Failed to stat receipt", "filename", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Receipt downloaded", "filename", name, "user_id", middleware.GetUserID(r.Context()))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, info.ModTime(), f)
}
