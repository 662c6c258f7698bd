package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"kassa/internal/models"
)

// maxUploadSize caps receipt attachments at 10 MB.
const maxUploadSize = 10 << 20

// handleUploadFile attaches a receipt to a transaction. The bytes land in
// the upload directory under a generated name; the original name survives in
// the metadata.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, errBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "dir", s.uploadDir, "error", err)
		writeError(w, err)
		return
	}

	storedName := uuid.New().String() + filepath.Ext(header.Filename)
	storedPath := filepath.Join(s.uploadDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		slog.Error("Failed to create upload file", "path", storedPath, "error", err)
		writeError(w, err)
		return
	}
	written, err := io.Copy(dst, file)
	dst.Close()
	if err != nil {
		removeFileBytes(storedPath)
		slog.Error("Failed to write upload", "path", storedPath, "error", err)
		writeError(w, err)
		return
	}

	meta := &models.TransactionFile{
		TransactionID: transactionID,
		FileName:      header.Filename,
		FilePath:      storedPath,
		Size:          written,
		MimeType:      header.Header.Get("Content-Type"),
	}
	if err := s.files.AddFile(r.Context(), meta); err != nil {
		removeFileBytes(storedPath)
		writeError(w, err)
		return
	}

	slog.Info("File attached", "transaction_id", transactionID, "file_id", meta.ID, "size", written)
	writeData(w, http.StatusCreated, meta)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.ListFiles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, files)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.files.GetFile(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.FileName))
	if f.MimeType != "" {
		w.Header().Set("Content-Type", f.MimeType)
	}
	http.ServeFile(w, r, f.FilePath)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.files.DeleteFile(r.Context(), chi.URLParam(r, "fileID"))
	if err != nil {
		writeError(w, err)
		return
	}
	removeFileBytes(deleted.FilePath)
	writeData(w, http.StatusOK, nil)
}

// removeFileBytes deletes attachment bytes from disk. The metadata row is
// already gone, so a failure here only leaves an orphaned file behind.
func removeFileBytes(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove file from disk", "path", path, "error", err)
	}
}
