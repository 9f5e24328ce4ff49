package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ValidateImageFile checks the declared content type and the size of an
// uploaded image.
func ValidateImageFile(file *multipart.FileHeader, maxSize int64) error {
	if file == nil {
		return errors.New("file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		return fmt.Errorf("file type not allowed: %s", contentType)
	}

	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", file.Size, maxSize)
	}

	return nil
}

// GenerateUniqueFilename keeps only a random name and a safe extension; the
// original name is stored separately and never touches the filesystem.
func GenerateUniqueFilename(originalName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := imageExtensions[ext]; !ok {
		ext = allowedImageTypes[contentType]
	}
	return uuid.New().String() + ext
}

func SaveUploadedFile(file *multipart.FileHeader, destDir, filename string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(destDir, filename)
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

// DiskStore keeps uploaded images in a local directory.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

// Save writes the upload under a unique name and returns that name.
func (s *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	filename := GenerateUniqueFilename(file.Filename, file.Header.Get("Content-Type"))
	if err := SaveUploadedFile(file, s.Dir, filename); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *DiskStore) Remove(filename string) error {
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid filename: %q", filename)
	}
	err := os.Remove(filepath.Join(s.Dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}
