// Package report renders a finished inspection into an xlsx workbook for
// download.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sistemaagil/vistoria/models"
	"github.com/sistemaagil/vistoria/repository"
)

const sheetName = "Vistoria"

// checklistItem pairs a checklist value with its printed label. Order is the
// order the paper form lists the items.
type checklistItem struct {
	Label   string
	Checked bool
}

func checklistItems(c models.Checklist) []checklistItem {
	return []checklistItem{
		{"Ar-condicionado", c.AirConditioning},
		{"Antenas", c.Antennas},
		{"Tapetes", c.FloorMats},
		{"Tapete do porta-malas", c.TrunkMat},
		{"Bateria", c.Battery},
		{"Retrovisor direito", c.RightMirror},
		{"Retrovisor esquerdo", c.LeftMirror},
		{"Extintor", c.FireExtinguisher},
		{"Roda comum", c.StandardWheels},
		{"Roda especial", c.AlloyWheels},
		{"Chave principal", c.MainKey},
		{"Chave reserva", c.SpareKey},
		{"Manual", c.OwnerManual},
		{"Documento", c.VehicleDocument},
		{"Nota fiscal", c.SalesInvoice},
		{"Limpador dianteiro", c.FrontWiper},
		{"Limpador traseiro", c.RearWiper},
		{"Triângulo", c.WarningTriangle},
		{"Macaco", c.Jack},
		{"Chave de roda", c.WheelWrench},
		{"Pneu step", c.SpareTire},
		{"Carregador elétrico", c.ElectricCharger},
	}
}

// Filename names the download for one inspection.
func Filename(token string) string {
	return fmt.Sprintf("vistoria_%s_%s.xlsx", token, time.Now().Format("20060102"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// Build renders the inspection and its photo listing into a workbook.
func Build(insp *models.Inspection, photos []repository.PhotoWithObservation) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})

	f.SetCellValue(sheetName, "A1", "Relatório de Vistoria")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Token: %s", insp.Token))
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Gerado em: %s", time.Now().Format("2006-01-02 15:04:05")))
	f.SetColWidth(sheetName, "A", "B", 32)
	f.SetColWidth(sheetName, "C", "E", 24)

	row := 5
	setSection := func(label string) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheetName, cell, label)
		f.SetCellStyle(sheetName, cell, cell, sectionStyle)
		row++
	}
	setPair := func(label string, value any) {
		keyCell, _ := excelize.CoordinatesToCellName(1, row)
		valCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheetName, keyCell, label)
		f.SetCellValue(sheetName, valCell, value)
		row++
	}

	setSection("Veículo")
	setPair("Placa", deref(insp.Plate))
	setPair("Chassi", deref(insp.Chassis))
	setPair("Modelo", insp.Model)
	setPair("Cor", insp.Color)
	if insp.Year != nil {
		setPair("Ano", *insp.Year)
	} else {
		setPair("Ano", "")
	}
	setPair("Quilometragem", deref(insp.Odometer))
	setPair("Veículo próprio", yesNo(insp.SelfOwned))
	if !insp.SelfOwned {
		setPair("Nome do terceiro", deref(insp.ThirdPartyName))
	}
	setPair("Conferente", insp.InspectorName)
	setPair("Cliente", insp.CustomerName)
	row++

	setSection("Checklist")
	for _, item := range checklistItems(insp.Checklist) {
		setPair(item.Label, yesNo(item.Checked))
	}
	row++

	setSection("Pneus")
	setPair("Dianteiro esquerdo", insp.TireBrands.FrontLeft)
	setPair("Dianteiro direito", insp.TireBrands.FrontRight)
	setPair("Traseiro esquerdo", insp.TireBrands.RearLeft)
	setPair("Traseiro direito", insp.TireBrands.RearRight)
	row++

	setSection("Fotos")
	headers := []string{"Categoria", "Tipo", "Arquivo", "URL", "Observação"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, sectionStyle)
	}
	row++
	for _, photo := range photos {
		values := []any{photo.Category, photo.Classification, photo.FileName, photo.FileURL, ""}
		if photo.ObservationText != nil {
			values[4] = *photo.ObservationText
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, value)
		}
		row++
	}
	row++

	setSection("Assinatura")
	setPair("Status", insp.Status)
	if insp.Signed() {
		setPair("Assinado por", deref(insp.SignatureName))
		if insp.SignedAt != nil {
			setPair("Assinado em", insp.SignedAt.Format("2006-01-02 15:04:05"))
		}
		setPair("Arquivo", deref(insp.SignatureFilePath))
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}
