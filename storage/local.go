package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sistemaagil/vistoria/models"
)

// Local stores files on the serving host: photos under <uploadDir>/fotos,
// documents under <uploadDir>/documentos, signatures under signatureDir.
// URLs are served by the router's static file handlers.
type Local struct {
	uploadDir    string
	signatureDir string
	now          func() time.Time
}

// NewLocal builds the filesystem-backed store used outside of Cloud Run.
func NewLocal(uploadDir, signatureDir string) *Local {
	return &Local{uploadDir: uploadDir, signatureDir: signatureDir, now: time.Now}
}

// storedName builds a collision-safe file name for a category slot. The
// token and timestamp keep names operator-greppable; the random suffix keeps
// two uploads of the same slot in the same second apart.
func (l *Local) storedName(prefix, token, ext string) string {
	stamp := l.now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s_%s%s", prefix, token, stamp, uuid.NewString()[:8], ext)
}

func (l *Local) writeFile(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (l *Local) store(category, token string, data []byte, originalName, mimeType string) (models.FileInfo, error) {
	isDocument := models.ClassifyCategory(category) == models.PhotoDocument

	dir := filepath.Join(l.uploadDir, "fotos")
	urlBase := "/uploads/fotos/"
	prefix := category
	if isDocument {
		dir = filepath.Join(l.uploadDir, "documentos")
		urlBase = "/uploads/documentos/"
		prefix = "documento"
	}

	filename := l.storedName(prefix, token, extensionForMime(mimeType, originalName))
	path, err := l.writeFile(dir, filename, data)
	if err != nil {
		return models.FileInfo{}, err
	}

	width, height := probeDimensions(mimeType, data)
	return models.FileInfo{
		Filename: filename,
		Path:     path,
		URL:      urlBase + filename,
		Size:     int64(len(data)),
		MimeType: mimeType,
		Checksum: checksumBytes(data),
		Width:    width,
		Height:   height,
	}, nil
}

func (l *Local) SavePhoto(_ context.Context, category, token string, r io.Reader, originalName, mimeType string) (models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("read upload %q: %w", category, err)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return l.store(category, token, data, originalName, mimeType)
}

func (l *Local) SaveDataURL(_ context.Context, category, token, dataURL string) (models.FileInfo, error) {
	mimeType, data, err := parseDataURL(dataURL)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("photo %q: %w", category, err)
	}
	return l.store(category, token, data, "", mimeType)
}

func (l *Local) SaveSignature(_ context.Context, token, dataURL string) (models.FileInfo, error) {
	_, data, err := parseDataURL(dataURL)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("signature: %w", err)
	}
	filename := l.storedName("assinatura", token, ".png")
	path, err := l.writeFile(l.signatureDir, filename, data)
	if err != nil {
		return models.FileInfo{}, err
	}
	return models.FileInfo{
		Filename: filename,
		Path:     path,
		URL:      "/assinaturas/" + filename,
		Size:     int64(len(data)),
		MimeType: "image/png",
		Checksum: checksumBytes(data),
	}, nil
}

var _ Store = (*Local)(nil)
