package models

import "time"

// Observation status and defaults. Only active observations are current.
const (
	ObservationActive   = "active"
	ObservationInactive = "inactive"

	ObservationKindDamage = "damage"
	SeverityMedium        = "medium"
	PriorityNormal        = "normal"
)

// Observation is a free-text note bound to exactly one photo; the owning
// inspection is reachable through the photo.
type Observation struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PhotoID uint   `gorm:"column:foto_vistoria_id;index;not null" json:"foto_vistoria_id"`
	Photo   *Photo `gorm:"foreignKey:PhotoID" json:"-"`

	Description string `gorm:"column:descricao;not null"              json:"descricao"`
	Kind        string `gorm:"column:tipo;size:32;default:damage"     json:"tipo"`
	Severity    string `gorm:"column:gravidade;size:16"               json:"gravidade"`
	Priority    string `gorm:"column:prioridade;size:16"              json:"prioridade"`
	Status      string `gorm:"column:status;size:16;default:active"   json:"status"`

	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime" json:"criado_em"`
}

func (Observation) TableName() string { return "observacoes_fotos_vistoria" }
