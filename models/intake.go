package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ObservationSlots is how many free-text observation slots the form carries.
const ObservationSlots = 4

// PhotoIntake is one photo as it arrives from the client: either an already
// uploaded file referenced by URL or a pending data URL to be materialized
// by file intake before the repository records it.
type PhotoIntake struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"type"`
}

// InspectionIntake is the single canonical payload the repository accepts.
// Both incoming shapes (nested JSON and flat form-data) are adapted into it
// before any validation happens.
type InspectionIntake struct {
	// Token may be fixed by the caller when stored files were already named
	// for it; when empty the repository generates one at insert time.
	Token string

	Plate          string
	Chassis        string
	Model          string
	Color          string
	YearRaw        string
	Odometer       string
	SelfOwned      bool
	ThirdPartyName string

	InspectorName string
	CustomerName  string

	Checklist  Checklist
	TireBrands TireBrands

	// Observations holds the desc_obs_1..desc_obs_4 slot texts; empty slots
	// stay empty.
	Observations [ObservationSlots]string

	Photos []PhotoIntake

	// SignatureDataURL carries an inline ("presencial") signature captured
	// during the save itself, if any.
	SignatureDataURL string
}

// NestedVehicle mirrors the "veiculo" object of the structured payload.
type NestedVehicle struct {
	Plate          string `json:"placa"`
	Chassis        string `json:"chassi"`
	Model          string `json:"modelo"`
	Color          string `json:"cor"`
	Year           string `json:"ano"`
	Odometer       string `json:"km_rodado"`
	SelfOwned      *bool  `json:"proprio"`
	ThirdPartyName string `json:"nome_terceiro"`
}

// NestedIntakeRequest is the structured JSON shape posted by the web form.
// Photos may arrive in the slot-keyed "fotos" map, the flat "photos" array,
// or both.
type NestedIntakeRequest struct {
	Vehicle    NestedVehicle          `json:"veiculo"`
	Checklist  Checklist              `json:"questionario"`
	TireBrands TireBrands             `json:"pneus"`
	Photos     []PhotoIntake          `json:"photos"`
	PhotoSlots map[string]PhotoIntake `json:"fotos"`

	InspectorName string `json:"nome_conferente"`
	CustomerName  string `json:"nome_cliente"`

	DescObs1 string `json:"desc_obs_1"`
	DescObs2 string `json:"desc_obs_2"`
	DescObs3 string `json:"desc_obs_3"`
	DescObs4 string `json:"desc_obs_4"`

	Signature string `json:"assinatura"`
}

// IntakeFromNested adapts the structured JSON shape into the canonical
// intake.
func IntakeFromNested(req *NestedIntakeRequest) *InspectionIntake {
	intake := &InspectionIntake{
		Plate:          req.Vehicle.Plate,
		Chassis:        req.Vehicle.Chassis,
		Model:          req.Vehicle.Model,
		Color:          req.Vehicle.Color,
		YearRaw:        req.Vehicle.Year,
		Odometer:       req.Vehicle.Odometer,
		SelfOwned:      true,
		ThirdPartyName: req.Vehicle.ThirdPartyName,
		InspectorName:  req.InspectorName,
		CustomerName:   req.CustomerName,
		Checklist:      req.Checklist,
		TireBrands:     req.TireBrands,
		Observations: [ObservationSlots]string{
			strings.TrimSpace(req.DescObs1),
			strings.TrimSpace(req.DescObs2),
			strings.TrimSpace(req.DescObs3),
			strings.TrimSpace(req.DescObs4),
		},
		SignatureDataURL: req.Signature,
	}
	if req.Vehicle.SelfOwned != nil {
		intake.SelfOwned = *req.Vehicle.SelfOwned
	}

	// Slot-keyed map first, then the flat array; both shapes are seen in the
	// wild and a slot may only appear in one of them.
	for slot, photo := range req.PhotoSlots {
		if photo.URL == "" {
			continue
		}
		photo.Category = slot
		if photo.Name == "" {
			photo.Name = slot
		}
		intake.Photos = append(intake.Photos, photo)
	}
	for _, photo := range req.Photos {
		if photo.URL == "" {
			continue
		}
		if photo.Category == "" {
			photo.Category = photo.Name
		}
		intake.Photos = append(intake.Photos, photo)
	}
	return intake
}

// checklistFields maps flat form field names onto the checklist struct.
func checklistFields(c *Checklist) map[string]*bool {
	return map[string]*bool{
		"ar_condicionado":     &c.AirConditioning,
		"antenas":             &c.Antennas,
		"tapetes":             &c.FloorMats,
		"tapete_porta_malas":  &c.TrunkMat,
		"bateria":             &c.Battery,
		"retrovisor_direito":  &c.RightMirror,
		"retrovisor_esquerdo": &c.LeftMirror,
		"extintor":            &c.FireExtinguisher,
		"roda_comum":          &c.StandardWheels,
		"roda_especial":       &c.AlloyWheels,
		"chave_principal":     &c.MainKey,
		"chave_reserva":       &c.SpareKey,
		"manual":              &c.OwnerManual,
		"documento":           &c.VehicleDocument,
		"nota_fiscal":         &c.SalesInvoice,
		"limpador_dianteiro":  &c.FrontWiper,
		"limpador_traseiro":   &c.RearWiper,
		"triangulo":           &c.WarningTriangle,
		"macaco":              &c.Jack,
		"chave_roda":          &c.WheelWrench,
		"pneu_step":           &c.SpareTire,
		"carregador_eletrico": &c.ElectricCharger,
	}
}

// IntakeFromForm adapts the flat key/value form-data shape into the
// canonical intake. Photos uploaded as multipart files are materialized by
// the handler and appended afterwards.
func IntakeFromForm(form url.Values) *InspectionIntake {
	intake := &InspectionIntake{
		Plate:          form.Get("placa"),
		Chassis:        form.Get("chassi"),
		Model:          form.Get("modelo"),
		Color:          form.Get("cor"),
		YearRaw:        form.Get("ano"),
		Odometer:       form.Get("km_rodado"),
		SelfOwned:      formBool(form.Get("proprio"), true),
		ThirdPartyName: form.Get("nome_terceiro"),
		InspectorName:  form.Get("nome_conferente"),
		CustomerName:   form.Get("nome_cliente"),
		TireBrands: TireBrands{
			FrontLeft:  form.Get("marca_pneu_dianteiro_esquerdo"),
			FrontRight: form.Get("marca_pneu_dianteiro_direito"),
			RearLeft:   form.Get("marca_pneu_traseiro_esquerdo"),
			RearRight:  form.Get("marca_pneu_traseiro_direito"),
		},
	}
	for field, target := range checklistFields(&intake.Checklist) {
		*target = formBool(form.Get(field), false)
	}
	for i := 0; i < ObservationSlots; i++ {
		intake.Observations[i] = strings.TrimSpace(form.Get("desc_obs_" + strconv.Itoa(i+1)))
	}
	return intake
}

func formBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	return strings.EqualFold(raw, "true")
}

// CoerceYear validates a free-text year. Values outside [1900, current
// year+1] or non-numeric input degrade to nil rather than failing the
// operation.
func CoerceYear(raw string, now time.Time) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	if year < 1900 || year > now.Year()+1 {
		return nil
	}
	return &year
}

// Validate reports the missing required fields of an intake. The customer
// name may be omitted when the vehicle belongs to a named third party.
func (in *InspectionIntake) Validate() []string {
	var missing []string
	if strings.TrimSpace(in.Model) == "" {
		missing = append(missing, "modelo")
	}
	if strings.TrimSpace(in.InspectorName) == "" {
		missing = append(missing, "nome_conferente")
	}
	if strings.TrimSpace(in.CustomerName) == "" && (in.SelfOwned || strings.TrimSpace(in.ThirdPartyName) == "") {
		missing = append(missing, "nome_cliente")
	}
	return missing
}
