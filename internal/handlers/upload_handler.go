package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveImage stores an uploaded image under UploadDir/subdir with a uuid
// file name and returns its path relative to UploadDir.
func (h *Handlers) saveImage(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", store.ErrInvalid, ext)
	}

	dir := filepath.Join(h.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	newFilename := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, newFilename)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path.Join(subdir, newFilename), nil
}

// publicURL is where a stored upload is served from.
func (h *Handlers) publicURL(relPath string) string {
	return fmt.Sprintf("%s/uploads/%s", h.BaseURL, relPath)
}
