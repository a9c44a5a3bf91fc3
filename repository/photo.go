package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/sistemaagil/vistoria/models"
)

// AttachPhoto inserts one photo row for the inspection. The classification
// is derived from the category here, never taken from the caller. The insert
// is its own transaction: a failure rolls back only this row and leaves
// sibling photos already committed untouched.
func (r *InspectionRepository) AttachPhoto(ctx context.Context, inspectionID uint, category string, file models.FileInfo) (*models.Photo, error) {
	photo := models.Photo{
		InspectionID:   inspectionID,
		Category:       category,
		Classification: models.ClassifyCategory(category),
		FileName:       file.Filename,
		FilePath:       file.Path,
		FileURL:        file.URL,
		FileSize:       file.Size,
		MimeType:       file.MimeType,
		Checksum:       file.Checksum,
		Width:          file.Width,
		Height:         file.Height,
	}
	if err := r.db.WithContext(ctx).Create(&photo).Error; err != nil {
		return nil, fmt.Errorf("insert photo %q: %w", category, err)
	}
	return &photo, nil
}

// AttachObservation inserts one active observation bound to a photo. Empty
// kind/severity/priority fall back to the form defaults.
func (r *InspectionRepository) AttachObservation(ctx context.Context, photoID uint, description, kind, severity, priority string) (*models.Observation, error) {
	if kind == "" {
		kind = models.ObservationKindDamage
	}
	if severity == "" {
		severity = models.SeverityMedium
	}
	if priority == "" {
		priority = models.PriorityNormal
	}
	obs := models.Observation{
		PhotoID:     photoID,
		Description: description,
		Kind:        kind,
		Severity:    severity,
		Priority:    priority,
		Status:      models.ObservationActive,
	}
	if err := r.db.WithContext(ctx).Create(&obs).Error; err != nil {
		return nil, fmt.Errorf("insert observation for photo %d: %w", photoID, err)
	}
	return &obs, nil
}

// PhotoWithObservation is one row of the photo listing consumed by the
// signing page and the report renderer. Field names and ordering are part of
// the contract.
type PhotoWithObservation struct {
	PhotoID        uint      `gorm:"column:foto_id"        json:"foto_id"`
	Category       string    `gorm:"column:categoria"      json:"categoria"`
	Classification string    `gorm:"column:tipo"           json:"tipo"`
	FileName       string    `gorm:"column:arquivo_nome"   json:"arquivo_nome"`
	FilePath       string    `gorm:"column:arquivo_path"   json:"arquivo_path"`
	FileURL        string    `gorm:"column:arquivo_url"    json:"arquivo_url"`
	CreatedAt      time.Time `gorm:"column:foto_criado_em" json:"foto_criado_em"`

	ObservationID       *uint   `gorm:"column:observacao_id"         json:"observacao_id"`
	ObservationText     *string `gorm:"column:observacao_descricao"  json:"observacao_descricao"`
	ObservationPriority *string `gorm:"column:observacao_prioridade" json:"observacao_prioridade"`
	ObservationStatus   *string `gorm:"column:observacao_status"     json:"observacao_status"`
}

// ListPhotos returns every photo of an inspection joined with its single
// active observation, ordered mandatory < tire < observation, then by
// category, then by insertion order.
func (r *InspectionRepository) ListPhotos(ctx context.Context, inspectionID uint) ([]PhotoWithObservation, error) {
	rows := make([]PhotoWithObservation, 0)
	err := r.db.WithContext(ctx).
		Table("fotos_vistoria AS f").
		Select(`f.id AS foto_id, f.categoria, f.tipo, f.arquivo_nome, f.arquivo_path,
			f.arquivo_url, f.criado_em AS foto_criado_em,
			o.id AS observacao_id, o.descricao AS observacao_descricao,
			o.prioridade AS observacao_prioridade, o.status AS observacao_status`).
		Joins("LEFT JOIN observacoes_fotos_vistoria AS o ON o.foto_vistoria_id = f.id AND o.status = ?", models.ObservationActive).
		Where("f.vistoria_id = ?", inspectionID).
		Order(`CASE f.tipo
			WHEN 'mandatory' THEN 1
			WHEN 'tire' THEN 2
			WHEN 'observation' THEN 3
			ELSE 4 END, f.categoria, f.id`).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list photos for inspection %d: %w", inspectionID, err)
	}
	return rows, nil
}
