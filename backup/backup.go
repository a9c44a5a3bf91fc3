// Package backup writes one JSON snapshot per completed save and can rebuild
// the photo listing from the latest snapshot when the database loses the
// rows.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sistemaagil/vistoria/models"
	"github.com/sistemaagil/vistoria/repository"
)

// Writer persists save snapshots under Dir as
// vistoria_<token>_<timestamp>.json. It satisfies repository.Recorder.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter builds a snapshot writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Record marshals the payload and writes it next to earlier snapshots of the
// same token. It returns the written path.
func (w *Writer) Record(token string, inspectionID uint, payload any) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", w.dir, err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot for %s: %w", token, err)
	}
	name := fmt.Sprintf("vistoria_%s_%s.json", token, w.now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}

var _ repository.Recorder = (*Writer)(nil)

// snapshot is the read-side shape of a stored save snapshot. Only the photo
// list is consumed by the fallback.
type snapshot struct {
	InspectionID uint                    `json:"vistoria_id"`
	Token        string                  `json:"token"`
	Photos       []repository.PhotoInput `json:"photos"`
	Version      string                  `json:"backup_version"`
}

// PhotosFromLatest rebuilds a photo listing for token from its most recent
// snapshot, in the same order the database query would produce. It returns
// nil rows and nil error when no snapshot exists; the caller decides whether
// an empty listing is acceptable.
func (w *Writer) PhotosFromLatest(token string) ([]repository.PhotoWithObservation, error) {
	pattern := filepath.Join(w.dir, fmt.Sprintf("vistoria_%s_*.json", token))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scan backups for %s: %w", token, err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// The timestamp suffix sorts lexically, so the last match is the latest.
	sort.Strings(matches)
	latest := matches[len(matches)-1]

	data, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", latest, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", latest, err)
	}

	rows := make([]repository.PhotoWithObservation, 0, len(snap.Photos))
	for _, input := range snap.Photos {
		rows = append(rows, repository.PhotoWithObservation{
			Category:       input.Category,
			Classification: models.ClassifyCategory(input.Category),
			FileName:       input.File.Filename,
			FilePath:       input.File.Path,
			FileURL:        input.File.URL,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := models.ClassificationRank(rows[i].Classification), models.ClassificationRank(rows[j].Classification)
		if ri != rj {
			return ri < rj
		}
		return rows[i].Category < rows[j].Category
	})
	return rows, nil
}
