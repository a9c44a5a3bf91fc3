package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/sistemaagil/vistoria/models"
)

// testDB opens a throwaway sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        filepath.Join(t.TempDir(), "vistoria_test.db"),
	}, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Inspection{}, &models.Photo{}, &models.Observation{}))
	return db
}

func testRepo(t *testing.T) *InspectionRepository {
	t.Helper()
	return New(testDB(t), 24*time.Hour, nil)
}

func testIntake() *models.InspectionIntake {
	return &models.InspectionIntake{
		Plate:         "ABC1D23",
		Model:         "Onix",
		YearRaw:       "2022",
		SelfOwned:     true,
		InspectorName: "Maria",
		CustomerName:  "João",
		Checklist:     models.Checklist{AirConditioning: true, MainKey: true},
		TireBrands:    models.TireBrands{FrontLeft: "Pirelli"},
	}
}

func testFile(name string) models.FileInfo {
	return models.FileInfo{
		Filename: name,
		Path:     "/tmp/" + name,
		URL:      "/uploads/fotos/" + name,
		Size:     1024,
		MimeType: "image/jpeg",
		Checksum: "deadbeef",
	}
}

func TestCreate(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	insp, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)
	require.NotZero(t, insp.ID)
	require.Regexp(t, `^VIST_[A-Z0-9]{12}_\d{8}_\d{6}$`, insp.Token)
	require.Equal(t, models.StatusAwaitingSignature, insp.Status)
	require.NotNil(t, insp.Year)
	require.Equal(t, 2022, *insp.Year)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), insp.TokenExpiresAt, time.Minute)
}

func TestCreateCoercesBadYearToNull(t *testing.T) {
	repo := testRepo(t)
	intake := testIntake()
	intake.YearRaw = "3050"

	insp, err := repo.Create(context.Background(), intake)
	require.NoError(t, err)
	require.Nil(t, insp.Year)
}

func TestCreateWithPresetToken(t *testing.T) {
	repo := testRepo(t)
	intake := testIntake()
	intake.Token = "VIST_AAAABBBBCCCC_20250101_120000"

	insp, err := repo.Create(context.Background(), intake)
	require.NoError(t, err)
	require.Equal(t, intake.Token, insp.Token)
}

func TestCreateDuplicateTokenFails(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	intake := testIntake()
	intake.Token = "VIST_AAAABBBBCCCC_20250101_120000"
	_, err := repo.Create(ctx, intake)
	require.NoError(t, err)

	_, err = repo.Create(ctx, intake)
	require.Error(t, err)
}

func TestFindByToken(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	found, err := repo.FindByToken(ctx, created.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.True(t, found.Checklist.AirConditioning)
	require.Equal(t, "Pirelli", found.TireBrands.FrontLeft)

	_, err = repo.FindByToken(ctx, "VIST_NAOEXISTE999_20250101_120000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Token, found.Token)

	_, err = repo.FindByID(ctx, 99999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSign(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	signed, err := repo.Sign(ctx, created.Token, models.FileInfo{
		Path:     "/assinaturas/assinatura_x.png",
		Checksum: "cafebabe",
	}, "João")
	require.NoError(t, err)
	require.Equal(t, created.ID, signed.ID)
	require.Equal(t, created.Token, signed.Token)

	// All four signature fields land together with the status flip.
	after, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusSigned, after.Status)
	require.NotNil(t, after.SignatureFilePath)
	require.NotNil(t, after.SignatureName)
	require.NotNil(t, after.SignatureChecksum)
	require.NotNil(t, after.SignedAt)
	require.Equal(t, "João", *after.SignatureName)
}

func TestSignIsMonotonic(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	_, err = repo.Sign(ctx, created.Token, testFile("sig.png"), "João")
	require.NoError(t, err)

	// A second attempt finds no row still awaiting signature.
	_, err = repo.Sign(ctx, created.Token, testFile("sig2.png"), "Outro")
	require.ErrorIs(t, err, ErrNoMatch)

	after, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "João", *after.SignatureName)
}

func TestSignUnknownToken(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.Sign(context.Background(), "VIST_NAOEXISTE999_20250101_120000", testFile("sig.png"), "João")
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestSignatureFieldsNullUntilSigned(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, found.SignatureFilePath)
	require.Nil(t, found.SignatureName)
	require.Nil(t, found.SignatureChecksum)
	require.Nil(t, found.SignedAt)
}

func TestListPhotosOrdering(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	insp, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)

	// Deliberately shuffled insert order.
	categories := []string{
		"foto_obs_2", "pneu_dianteiro_esquerdo", "traseira",
		"foto_obs_1", "frente", "pneu_traseiro_direito",
	}
	for _, c := range categories {
		_, err := repo.AttachPhoto(ctx, insp.ID, c, testFile(c+".jpg"))
		require.NoError(t, err)
	}

	rows, err := repo.ListPhotos(ctx, insp.ID)
	require.NoError(t, err)
	require.Len(t, rows, len(categories))

	got := make([]string, len(rows))
	for i, row := range rows {
		got[i] = row.Category
	}
	require.Equal(t, []string{
		"frente", "traseira",
		"pneu_dianteiro_esquerdo", "pneu_traseiro_direito",
		"foto_obs_1", "foto_obs_2",
	}, got)
}

func TestListPhotosJoinsActiveObservation(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	insp, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)
	photo, err := repo.AttachPhoto(ctx, insp.ID, "foto_obs_1", testFile("obs1.jpg"))
	require.NoError(t, err)
	_, err = repo.AttachObservation(ctx, photo.ID, "risco profundo", "", "", "")
	require.NoError(t, err)

	rows, err := repo.ListPhotos(ctx, insp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ObservationText)
	require.Equal(t, "risco profundo", *rows[0].ObservationText)
	require.Equal(t, models.PhotoObservation, rows[0].Classification)
}

func TestAttachObservationDefaults(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	insp, err := repo.Create(ctx, testIntake())
	require.NoError(t, err)
	photo, err := repo.AttachPhoto(ctx, insp.ID, "foto_obs_1", testFile("obs1.jpg"))
	require.NoError(t, err)

	obs, err := repo.AttachObservation(ctx, photo.ID, "amassado", "", "", "")
	require.NoError(t, err)
	require.Equal(t, models.ObservationKindDamage, obs.Kind)
	require.Equal(t, models.SeverityMedium, obs.Severity)
	require.Equal(t, models.PriorityNormal, obs.Priority)
	require.Equal(t, models.ObservationActive, obs.Status)
}

func TestListRecent(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	tokens := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		insp, err := repo.Create(ctx, testIntake())
		require.NoError(t, err)
		tokens = append(tokens, insp.Token)
		// criado_em has second resolution in the listing order.
		repo.db.Model(&models.Inspection{}).
			Where("token = ?", insp.Token).
			Update("criado_em", time.Now().Add(time.Duration(i)*time.Minute))
	}

	rows, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, tokens[2], rows[0].Token)
	require.Equal(t, tokens[1], rows[1].Token)
}
