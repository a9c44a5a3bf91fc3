package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/sistemaagil/vistoria/models"
)

// GCS stores files in a Google Cloud Storage bucket. Selected in production
// (Cloud Run sets K_SERVICE); local development uses the filesystem store.
type GCS struct {
	client *gcs.Client
	bucket string
	now    func() time.Time
}

// NewGCS dials the storage API using ambient credentials.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, now: time.Now}, nil
}

// Close releases the underlying API client.
func (g *GCS) Close() error { return g.client.Close() }

func (g *GCS) objectName(folder, prefix, token, ext string) string {
	stamp := g.now().Format("20060102_150405")
	return fmt.Sprintf("%s/%s_%s_%s_%s%s", folder, prefix, token, stamp, uuid.NewString()[:8], ext)
}

func (g *GCS) write(ctx context.Context, object, mimeType string, data []byte) error {
	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", g.bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", g.bucket, object, err)
	}
	return nil
}

func (g *GCS) publicURL(object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, object)
}

func (g *GCS) store(ctx context.Context, category, token string, data []byte, originalName, mimeType string) (models.FileInfo, error) {
	folder, prefix := "fotos", category
	if models.ClassifyCategory(category) == models.PhotoDocument {
		folder, prefix = "documentos", "documento"
	}
	object := g.objectName(folder, prefix, token, extensionForMime(mimeType, originalName))
	if err := g.write(ctx, object, mimeType, data); err != nil {
		return models.FileInfo{}, err
	}
	width, height := probeDimensions(mimeType, data)
	return models.FileInfo{
		Filename: object,
		Path:     object,
		URL:      g.publicURL(object),
		Size:     int64(len(data)),
		MimeType: mimeType,
		Checksum: checksumBytes(data),
		Width:    width,
		Height:   height,
	}, nil
}

func (g *GCS) SavePhoto(ctx context.Context, category, token string, r io.Reader, originalName, mimeType string) (models.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("read upload %q: %w", category, err)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return g.store(ctx, category, token, data, originalName, mimeType)
}

func (g *GCS) SaveDataURL(ctx context.Context, category, token, dataURL string) (models.FileInfo, error) {
	mimeType, data, err := parseDataURL(dataURL)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("photo %q: %w", category, err)
	}
	return g.store(ctx, category, token, data, "", mimeType)
}

func (g *GCS) SaveSignature(ctx context.Context, token, dataURL string) (models.FileInfo, error) {
	_, data, err := parseDataURL(dataURL)
	if err != nil {
		return models.FileInfo{}, fmt.Errorf("signature: %w", err)
	}
	object := g.objectName("assinaturas", "assinatura", token, ".png")
	if err := g.write(ctx, object, "image/png", data); err != nil {
		return models.FileInfo{}, err
	}
	return models.FileInfo{
		Filename: object,
		Path:     object,
		URL:      g.publicURL(object),
		Size:     int64(len(data)),
		MimeType: "image/png",
		Checksum: checksumBytes(data),
	}, nil
}

var _ Store = (*GCS)(nil)
