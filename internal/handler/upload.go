package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxUploadFiles = 5
	maxUploadBytes = 32 << 20
)

// imageExtensions — допустимые расширения загружаемых изображений.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadImages принимает до пяти изображений товара и возвращает пути,
// по которым они доступны через /uploads (административная операция).
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		h.fail(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(files) > maxUploadFiles {
		h.fail(w, http.StatusBadRequest, fmt.Sprintf("At most %d images per request", maxUploadFiles))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("create upload dir", zap.Error(err))
		h.fail(w, http.StatusInternalServerError, "Error uploading images")
		return
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !imageExtensions[ext] {
			h.fail(w, http.StatusBadRequest, "Only image files are allowed")
			return
		}

		name := uuid.NewString() + ext
		if err := h.saveUploadedFile(header, filepath.Join(h.uploadDir, name)); err != nil {
			h.logger.Error("save uploaded file", zap.Error(err), zap.String("file", header.Filename))
			h.fail(w, http.StatusInternalServerError, "Error uploading images")
			return
		}

		paths = append(paths, "/uploads/"+name)
	}

	h.ok(w, http.StatusOK, paths)
}

func (h *Handler) saveUploadedFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return nil
}
