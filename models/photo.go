package models

import (
	"strings"
	"time"
)

// Photo classification, derived from the category slot name. Never settable
// independently: two photos with the same category always classify the same.
const (
	PhotoMandatory   = "mandatory"
	PhotoTire        = "tire"
	PhotoObservation = "observation"
	PhotoDocument    = "document"
)

// DocumentCategory is the one slot whose upload is filed as a document
// rather than a vehicle photo.
const DocumentCategory = "documento_nota_fiscal"

// ClassifyCategory maps a category slot name to its classification. Rules
// are ordered and the first match wins.
func ClassifyCategory(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "pneu"):
		return PhotoTire
	case strings.Contains(c, "obs") || strings.Contains(c, "observacao"):
		return PhotoObservation
	case category == DocumentCategory:
		return PhotoDocument
	default:
		return PhotoMandatory
	}
}

// Photo is one stored image (or document) attached to an inspection. Owned
// exclusively by the inspection it points to.
type Photo struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	InspectionID uint        `gorm:"column:vistoria_id;index;not null" json:"vistoria_id"`
	Inspection   *Inspection `gorm:"foreignKey:InspectionID" json:"-"`

	Category       string `gorm:"column:categoria;size:64;not null" json:"categoria"`
	Classification string `gorm:"column:tipo;size:16;not null"      json:"tipo"`

	FileName string `gorm:"column:arquivo_nome"     json:"arquivo_nome"`
	FilePath string `gorm:"column:arquivo_path"     json:"arquivo_path"`
	FileURL  string `gorm:"column:arquivo_url"      json:"arquivo_url"`
	FileSize int64  `gorm:"column:arquivo_tamanho"  json:"arquivo_tamanho"`
	MimeType string `gorm:"column:arquivo_tipo"     json:"arquivo_tipo"`
	Checksum string `gorm:"column:arquivo_checksum" json:"arquivo_checksum"`
	Width    *int   `gorm:"column:largura"          json:"largura"`
	Height   *int   `gorm:"column:altura"           json:"altura"`

	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (Photo) TableName() string { return "fotos_vistoria" }

// ClassificationRank orders photo listings: mandatory, then tire, then
// observation. The report renderer depends on this ordering.
func ClassificationRank(classification string) int {
	switch classification {
	case PhotoMandatory:
		return 1
	case PhotoTire:
		return 2
	case PhotoObservation:
		return 3
	default:
		return 4
	}
}
