package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memRecorder captures backup snapshots in memory.
type memRecorder struct {
	tokens   []string
	payloads []any
	fail     bool
}

func (m *memRecorder) Record(token string, inspectionID uint, payload any) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	m.tokens = append(m.tokens, token)
	m.payloads = append(m.payloads, payload)
	return "/backups/vistoria_" + token + ".json", nil
}

func TestParseSavePolicy(t *testing.T) {
	require.Equal(t, SaveAtomic, ParseSavePolicy("atomic"))
	require.Equal(t, SaveBestEffort, ParseSavePolicy("best_effort"))
	require.Equal(t, SaveBestEffort, ParseSavePolicy(""))
	require.Equal(t, SaveBestEffort, ParseSavePolicy("whatever"))
}

func TestSaveComplete(t *testing.T) {
	recorder := &memRecorder{}
	repo := New(testDB(t), 24*time.Hour, recorder)
	ctx := context.Background()

	intake := testIntake()
	intake.Observations[0] = "risco na porta"
	intake.Observations[2] = "farol trincado"

	photos := []PhotoInput{
		{Category: "frente", File: testFile("frente.jpg")},
		{Category: "foto_obs_1", File: testFile("obs1.jpg")},
		{Category: "foto_obs_3", File: testFile("obs3.jpg")},
		{Category: "pneu_step", File: testFile("step.jpg")},
	}

	result, err := repo.SaveComplete(ctx, intake, photos, SaveBestEffort)
	require.NoError(t, err)
	require.Len(t, result.PhotoIDs, 4)
	require.Empty(t, result.PhotosFailed)
	require.Equal(t, 2, result.ObservationsSaved)
	require.Equal(t, "/backups/vistoria_"+result.Token+".json", result.BackupFile)

	rows, err := repo.ListPhotos(ctx, result.InspectionID)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Slot texts landed on their foto_obs_N photos.
	byCategory := map[string]PhotoWithObservation{}
	for _, row := range rows {
		byCategory[row.Category] = row
	}
	require.NotNil(t, byCategory["foto_obs_1"].ObservationText)
	require.Equal(t, "risco na porta", *byCategory["foto_obs_1"].ObservationText)
	require.NotNil(t, byCategory["foto_obs_3"].ObservationText)
	require.Equal(t, "farol trincado", *byCategory["foto_obs_3"].ObservationText)
	require.Nil(t, byCategory["frente"].ObservationText)
}

func TestSaveCompleteDropsOrphanObservation(t *testing.T) {
	repo := New(testDB(t), 24*time.Hour, nil)
	ctx := context.Background()

	intake := testIntake()
	intake.Observations[1] = "sem foto correspondente"

	result, err := repo.SaveComplete(ctx, intake, []PhotoInput{
		{Category: "frente", File: testFile("frente.jpg")},
	}, SaveBestEffort)
	require.NoError(t, err)
	require.Equal(t, 0, result.ObservationsSaved)

	rows, err := repo.ListPhotos(ctx, result.InspectionID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].ObservationText)
}

func TestSaveCompleteSnapshotShape(t *testing.T) {
	recorder := &memRecorder{}
	repo := New(testDB(t), 24*time.Hour, recorder)

	result, err := repo.SaveComplete(context.Background(), testIntake(), []PhotoInput{
		{Category: "frente", File: testFile("frente.jpg")},
	}, SaveBestEffort)
	require.NoError(t, err)
	require.Equal(t, []string{result.Token}, recorder.tokens)

	raw, err := json.Marshal(recorder.payloads[0])
	require.NoError(t, err)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.Equal(t, result.Token, snap["token"])
	require.Equal(t, "1.0", snap["backup_version"])
	require.Contains(t, snap, "dados_originais")
	require.Contains(t, snap, "photos")
}

func TestSaveCompleteBackupFailureDoesNotFailSave(t *testing.T) {
	repo := New(testDB(t), 24*time.Hour, &memRecorder{fail: true})

	result, err := repo.SaveComplete(context.Background(), testIntake(), nil, SaveBestEffort)
	require.NoError(t, err)
	require.Empty(t, result.BackupFile)

	// The inspection itself was persisted.
	_, err = repo.FindByToken(context.Background(), result.Token)
	require.NoError(t, err)
}

func TestSaveCompleteAtomic(t *testing.T) {
	repo := New(testDB(t), 24*time.Hour, nil)
	ctx := context.Background()

	intake := testIntake()
	intake.Observations[0] = "ok"

	result, err := repo.SaveComplete(ctx, intake, []PhotoInput{
		{Category: "frente", File: testFile("frente.jpg")},
		{Category: "foto_obs_1", File: testFile("obs1.jpg")},
	}, SaveAtomic)
	require.NoError(t, err)
	require.Len(t, result.PhotoIDs, 2)
	require.Equal(t, 1, result.ObservationsSaved)

	rows, err := repo.ListPhotos(ctx, result.InspectionID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestSaveCompleteDuplicatePhotoCategoryKeepsFirstForObservations(t *testing.T) {
	repo := New(testDB(t), 24*time.Hour, nil)
	ctx := context.Background()

	intake := testIntake()
	intake.Observations[0] = "primeira foto"

	result, err := repo.SaveComplete(ctx, intake, []PhotoInput{
		{Category: "foto_obs_1", File: testFile("a.jpg")},
		{Category: "foto_obs_1", File: testFile("b.jpg")},
	}, SaveBestEffort)
	require.NoError(t, err)
	require.Len(t, result.PhotoIDs, 2)
	require.Equal(t, 1, result.ObservationsSaved)

	rows, err := repo.ListPhotos(ctx, result.InspectionID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// The observation is bound to the first photo of the slot.
	require.NotNil(t, rows[0].ObservationText)
	require.Nil(t, rows[1].ObservationText)
}
