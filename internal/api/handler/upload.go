package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// saveUpload copies a multipart file to a temp file on local disk and
// returns its path. The file store deletes the temp file after upload.
func saveUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return dst.Name(), nil
}
