package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sistemaagil/vistoria/models"
)

// Create inserts the inspection row with a fresh token, status
// awaiting_signature and expiry = now + the configured window. A malformed
// year degrades to null instead of rejecting the record. The insert is its
// own transaction; on failure nothing is committed.
func (r *InspectionRepository) Create(ctx context.Context, intake *models.InspectionIntake) (*models.Inspection, error) {
	now := r.now()
	token := intake.Token
	if token == "" {
		var err error
		token, err = NewToken(now)
		if err != nil {
			return nil, err
		}
	}

	insp := models.Inspection{
		Token:          token,
		Plate:          nullString(intake.Plate),
		Chassis:        nullString(intake.Chassis),
		Model:          intake.Model,
		Color:          intake.Color,
		Year:           models.CoerceYear(intake.YearRaw, now),
		Odometer:       nullString(intake.Odometer),
		SelfOwned:      intake.SelfOwned,
		ThirdPartyName: nullString(intake.ThirdPartyName),
		InspectorName:  intake.InspectorName,
		CustomerName:   intake.CustomerName,
		Checklist:      intake.Checklist,
		TireBrands:     intake.TireBrands,
		Status:         models.StatusAwaitingSignature,
		TokenExpiresAt: now.Add(r.tokenTTL),
	}

	if err := r.db.WithContext(ctx).Create(&insp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("token collision on %s: %w", token, err)
		}
		return nil, fmt.Errorf("insert inspection: %w", err)
	}
	return &insp, nil
}

// SignedInspection is the identity returned by a successful signing update.
type SignedInspection struct {
	ID    uint    `json:"id"`
	Plate *string `json:"placa"`
	Model string  `json:"modelo"`
	Token string  `json:"token"`
}

// Sign performs the single conditional update that moves an inspection to
// its terminal state. It succeeds only while a row with the token is still
// awaiting_signature; concurrent calls race on the row lock and exactly one
// wins. All four signature fields are written together. Token expiry is NOT
// checked here: callers gate on token_expira_em before calling.
func (r *InspectionRepository) Sign(ctx context.Context, token string, signature models.FileInfo, signerName string) (*SignedInspection, error) {
	now := r.now()
	var insp models.Inspection
	res := r.db.WithContext(ctx).
		Model(&insp).
		Clauses(clause.Returning{Columns: []clause.Column{
			{Name: "id"}, {Name: "placa"}, {Name: "modelo"}, {Name: "token"},
		}}).
		Where("token = ? AND status = ?", token, models.StatusAwaitingSignature).
		Updates(map[string]any{
			"status":                  models.StatusSigned,
			"assinatura_arquivo_path": signature.Path,
			"assinatura_cliente_nome": signerName,
			"assinatura_checksum":     signature.Checksum,
			"assinatura_data":         now,
			"atualizado_em":           now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("sign inspection: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoMatch
	}
	return &SignedInspection{
		ID:    insp.ID,
		Plate: insp.Plate,
		Model: insp.Model,
		Token: insp.Token,
	}, nil
}

// FindByToken looks an inspection up by its client-facing handle.
func (r *InspectionRepository) FindByToken(ctx context.Context, token string) (*models.Inspection, error) {
	var insp models.Inspection
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&insp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find inspection by token: %w", err)
	}
	return &insp, nil
}

// FindByID looks an inspection up by its sequential identifier.
func (r *InspectionRepository) FindByID(ctx context.Context, id uint) (*models.Inspection, error) {
	var insp models.Inspection
	err := r.db.WithContext(ctx).First(&insp, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find inspection by id: %w", err)
	}
	return &insp, nil
}

// ListRecent returns the newest inspections first, capped by limit.
func (r *InspectionRepository) ListRecent(ctx context.Context, limit int) ([]models.Inspection, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]models.Inspection, 0, limit)
	err := r.db.WithContext(ctx).
		Order("criado_em DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recent inspections: %w", err)
	}
	return rows, nil
}
