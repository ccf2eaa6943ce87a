package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	WorkOrderDir  = "work-orders"
	GalleryDir    = "gallery"
	MaxWorkOrders = 5

	MaxWorkOrderImageSize = 5 << 20
	MaxGalleryImageSize   = 10 << 20
)

// Error is a client-facing upload failure (oversized file, wrong count,
// wrong mime class). Anything else is an internal error.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// SaveImages persists uploaded images under baseDir/subdir with generated
// names and returns the ordered web paths. Records reference these paths,
// never the binary content.
func SaveImages(files []*multipart.FileHeader, baseDir, subdir string, maxCount int, maxSize int64) ([]string, error) {
	if len(files) > maxCount {
		return nil, errf("Too many files. Maximum is %d files per upload.", maxCount)
	}

	paths := []string{}
	for _, fh := range files {
		p, err := saveOne(fh, baseDir, subdir, maxSize)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// SaveImage persists a single uploaded image.
func SaveImage(fh *multipart.FileHeader, baseDir, subdir string, maxSize int64) (string, error) {
	return saveOne(fh, baseDir, subdir, maxSize)
}

func saveOne(fh *multipart.FileHeader, baseDir, subdir string, maxSize int64) (string, error) {
	if fh.Size > maxSize {
		return "", errf("File too large. Maximum size is %dMB.", maxSize>>20)
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", errf("Only image files are allowed")
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dir := filepath.Join(baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + subdir + "/" + name, nil
}
