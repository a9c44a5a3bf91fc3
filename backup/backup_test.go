package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sistemaagil/vistoria/models"
	"github.com/sistemaagil/vistoria/repository"
)

const testToken = "VIST_AAAABBBBCCCC_20250101_120000"

func TestRecord(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Record(testToken, 7, map[string]any{"token": testToken, "vistoria_id": 7})
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, testToken, parsed["token"])
}

func TestRecordCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	w := NewWriter(dir)

	_, err := w.Record(testToken, 1, map[string]string{"token": testToken})
	require.NoError(t, err)
}

func TestPhotosFromLatest(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	// Two snapshots; the later one has the extra photo and must win.
	w.now = func() time.Time { return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC) }
	_, err := w.Record(testToken, 7, snapshot{
		InspectionID: 7,
		Token:        testToken,
		Photos: []repository.PhotoInput{
			{Category: "frente", File: models.FileInfo{Filename: "frente.jpg", URL: "/uploads/fotos/frente.jpg"}},
		},
		Version: "1.0",
	})
	require.NoError(t, err)

	w.now = func() time.Time { return time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC) }
	_, err = w.Record(testToken, 7, snapshot{
		InspectionID: 7,
		Token:        testToken,
		Photos: []repository.PhotoInput{
			{Category: "foto_obs_1", File: models.FileInfo{Filename: "obs1.jpg"}},
			{Category: "pneu_step", File: models.FileInfo{Filename: "step.jpg"}},
			{Category: "frente", File: models.FileInfo{Filename: "frente.jpg"}},
		},
		Version: "1.0",
	})
	require.NoError(t, err)

	rows, err := w.PhotosFromLatest(testToken)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Same order the database listing would produce.
	require.Equal(t, "frente", rows[0].Category)
	require.Equal(t, models.PhotoMandatory, rows[0].Classification)
	require.Equal(t, "pneu_step", rows[1].Category)
	require.Equal(t, models.PhotoTire, rows[1].Classification)
	require.Equal(t, "foto_obs_1", rows[2].Category)
	require.Equal(t, models.PhotoObservation, rows[2].Classification)
}

func TestPhotosFromLatestNoSnapshot(t *testing.T) {
	w := NewWriter(t.TempDir())
	rows, err := w.PhotosFromLatest(testToken)
	require.NoError(t, err)
	require.Nil(t, rows)
}
