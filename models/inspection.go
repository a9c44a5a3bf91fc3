package models

import (
	"time"
)

// Inspection lifecycle status. The transition awaiting_signature -> signed is
// the only one that exists and it never reverts.
const (
	StatusAwaitingSignature = "awaiting_signature"
	StatusSigned            = "signed"
)

// Checklist is the fixed set of equipment flags collected for every vehicle.
type Checklist struct {
	AirConditioning  bool `gorm:"column:ar_condicionado"          json:"ar_condicionado"`
	Antennas         bool `gorm:"column:antenas"                  json:"antenas"`
	FloorMats        bool `gorm:"column:tapetes"                  json:"tapetes"`
	TrunkMat         bool `gorm:"column:tapete_porta_malas"       json:"tapete_porta_malas"`
	Battery          bool `gorm:"column:bateria"                  json:"bateria"`
	RightMirror      bool `gorm:"column:retrovisor_direito"       json:"retrovisor_direito"`
	LeftMirror       bool `gorm:"column:retrovisor_esquerdo"      json:"retrovisor_esquerdo"`
	FireExtinguisher bool `gorm:"column:extintor"                 json:"extintor"`
	StandardWheels   bool `gorm:"column:roda_comum"               json:"roda_comum"`
	AlloyWheels      bool `gorm:"column:roda_especial"            json:"roda_especial"`
	MainKey          bool `gorm:"column:chave_principal"          json:"chave_principal"`
	SpareKey         bool `gorm:"column:chave_reserva"            json:"chave_reserva"`
	OwnerManual      bool `gorm:"column:manual"                   json:"manual"`
	VehicleDocument  bool `gorm:"column:documento"                json:"documento"`
	SalesInvoice     bool `gorm:"column:nota_fiscal"              json:"nota_fiscal"`
	FrontWiper       bool `gorm:"column:limpador_dianteiro"       json:"limpador_dianteiro"`
	RearWiper        bool `gorm:"column:limpador_traseiro"        json:"limpador_traseiro"`
	WarningTriangle  bool `gorm:"column:triangulo"                json:"triangulo"`
	Jack             bool `gorm:"column:macaco"                   json:"macaco"`
	WheelWrench      bool `gorm:"column:chave_roda"               json:"chave_roda"`
	SpareTire        bool `gorm:"column:pneu_step"                json:"pneu_step"`
	ElectricCharger  bool `gorm:"column:carregador_eletrico"      json:"carregador_eletrico"`
}

// TireBrands holds the free-text brand noted for each tire position.
type TireBrands struct {
	FrontLeft  string `gorm:"column:marca_pneu_dianteiro_esquerdo" json:"marca_pneu_dianteiro_esquerdo"`
	FrontRight string `gorm:"column:marca_pneu_dianteiro_direito"  json:"marca_pneu_dianteiro_direito"`
	RearLeft   string `gorm:"column:marca_pneu_traseiro_esquerdo"  json:"marca_pneu_traseiro_esquerdo"`
	RearRight  string `gorm:"column:marca_pneu_traseiro_direito"   json:"marca_pneu_traseiro_direito"`
}

// Inspection is one vehicle-condition record, the root entity. The token is
// the opaque client-facing handle fixed at creation; the four signature
// fields are populated together by the single signing update and are null
// until then.
type Inspection struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Token string `gorm:"uniqueIndex;size:40;not null" json:"token"`

	Plate    *string `gorm:"column:placa"     json:"placa"`
	Chassis  *string `gorm:"column:chassi"    json:"chassi"`
	Model    string  `gorm:"column:modelo"    json:"modelo"`
	Color    string  `gorm:"column:cor"       json:"cor"`
	Year     *int    `gorm:"column:ano"       json:"ano"`
	Odometer *string `gorm:"column:km_rodado" json:"km_rodado"`

	SelfOwned      bool    `gorm:"column:proprio;default:true" json:"proprio"`
	ThirdPartyName *string `gorm:"column:nome_terceiro"        json:"nome_terceiro"`

	InspectorName string `gorm:"column:nome_conferente;not null" json:"nome_conferente"`
	CustomerName  string `gorm:"column:nome_cliente"             json:"nome_cliente"`

	Checklist  Checklist  `gorm:"embedded" json:"questionario"`
	TireBrands TireBrands `gorm:"embedded" json:"pneus"`

	Status         string    `gorm:"size:32;default:awaiting_signature;index" json:"status"`
	TokenExpiresAt time.Time `gorm:"column:token_expira_em"                   json:"token_expira_em"`

	SignatureFilePath *string    `gorm:"column:assinatura_arquivo_path" json:"assinatura_arquivo_path"`
	SignatureName     *string    `gorm:"column:assinatura_cliente_nome" json:"assinatura_cliente_nome"`
	SignatureChecksum *string    `gorm:"column:assinatura_checksum"     json:"assinatura_checksum"`
	SignedAt          *time.Time `gorm:"column:assinatura_data"         json:"assinatura_data"`

	CreatedAt time.Time `gorm:"column:criado_em;autoCreateTime"     json:"criado_em"`
	UpdatedAt time.Time `gorm:"column:atualizado_em;autoUpdateTime" json:"atualizado_em"`
}

func (Inspection) TableName() string { return "vistorias" }

// Signed reports whether the record reached its terminal state.
func (i *Inspection) Signed() bool { return i.Status == StatusSigned }

// TokenExpired reports whether the signing link is past its window.
func (i *Inspection) TokenExpired(now time.Time) bool {
	return !i.TokenExpiresAt.IsZero() && now.After(i.TokenExpiresAt)
}
