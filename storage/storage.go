// Package storage materializes uploaded and base64-embedded media and hands
// back the file metadata the repository records. It never validates file
// contents.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/sistemaagil/vistoria/models"
)

// Store is the file-intake contract consumed by the write path. All methods
// return the metadata struct verbatim recorded by the repository.
type Store interface {
	// SavePhoto stores an uploaded photo or document for the given category
	// slot.
	SavePhoto(ctx context.Context, category, token string, r io.Reader, originalName, mimeType string) (models.FileInfo, error)

	// SaveDataURL stores a base64 data-URL photo or document.
	SaveDataURL(ctx context.Context, category, token, dataURL string) (models.FileInfo, error)

	// SaveSignature stores a signature image from its data URL.
	SaveSignature(ctx context.Context, token, dataURL string) (models.FileInfo, error)
}

// parseDataURL splits "data:<mime>;base64,<payload>" into its mime type and
// decoded bytes.
func parseDataURL(dataURL string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", nil, fmt.Errorf("not a data URL")
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	mimeType = strings.TrimPrefix(header, "data:")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return mimeType, data, nil
}

// extensionForMime picks a file extension for the stored copy. Unknown types
// fall back to .jpg, matching the photo-centric intake.
func extensionForMime(mimeType, originalName string) string {
	if ext := filepath.Ext(originalName); ext != "" {
		return strings.ToLower(ext)
	}
	switch {
	case strings.Contains(mimeType, "pdf"):
		return ".pdf"
	case strings.Contains(mimeType, "openxml"):
		return ".docx"
	case strings.Contains(mimeType, "msword"), strings.Contains(mimeType, "word"):
		return ".doc"
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

func checksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// probeDimensions decodes image bytes to learn width and height. Non-images
// and undecodable files yield nil dimensions, never an error.
func probeDimensions(mimeType string, data []byte) (width, height *int) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	return &w, &h
}
