// Package export writes analyzed offers to an xlsx workbook for tracking
// applications in a spreadsheet.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/planmyjob/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	OffersSheet    = "Offres"
	KeyPointsSheet = "Points clés"
	SummarySheet   = "Résumé"
)

// Row is one analyzed offer and where it came from (file path or URL).
type Row struct {
	Source string
	Offer  types.ExtractedOffer
}

// offerHeaders are the columns of the offers sheet, in order.
var offerHeaders = []string{
	"Source", "Poste", "Entreprise", "Contrat", "Télétravail", "Lieu",
	"Expérience", "Salaire", "Compétences", "Lien de candidature",
}

var offerColWidths = []float64{30, 35, 25, 14, 14, 25, 16, 20, 40, 45}

// contractLabels are the French labels of the contract enum.
var contractLabels = map[types.ContractType]string{
	types.ContractCDI:            "CDI",
	types.ContractCDD:            "CDD",
	types.ContractApprenticeship: "Alternance",
	types.ContractInternship:     "Stage",
	types.ContractFreelance:      "Freelance",
	types.ContractOther:          "Autre",
}

var remoteLabels = map[types.RemotePolicy]string{
	types.RemoteYes:     "Oui",
	types.RemoteNo:      "Non",
	types.RemoteHybrid:  "Hybride",
	types.RemoteUnknown: "Non précisé",
}

func label[K comparable](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return fmt.Sprint(k)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// Build creates the workbook for rows. The caller closes the file.
func Build(rows []Row, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", OffersSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(KeyPointsSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"offers", func() error { return createOffersSheet(f, rows) }},
		{"key points", func() error { return createKeyPointsSheet(f, rows) }},
		{"summary", func() error { return createSummarySheet(f, rows, generated) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", step.name, err)
		}
	}

	return f, nil
}

// ExportOffers writes rows to an xlsx file at outputPath, adding the
// .xlsx extension when missing. Returns the path written.
func ExportOffers(rows []Row, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := Build(rows, time.Now())
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

// WriteOffers streams the workbook for rows to w.
func WriteOffers(w io.Writer, rows []Row) error {
	f, err := Build(rows, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for col, header := range headers {
		c := cell(col+1, 1)
		if err := f.SetCellValue(sheet, c, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, c, c, style); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func createOffersSheet(f *excelize.File, rows []Row) error {
	sheet := OffersSheet
	for col, width := range offerColWidths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	if err := writeHeaders(f, sheet, offerHeaders); err != nil {
		return err
	}

	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		o := r.Offer
		values := []any{
			r.Source,
			o.Title,
			o.Company,
			label(contractLabels, o.ContractType),
			label(remoteLabels, o.RemotePolicy),
			o.Location,
			o.ExperienceYears,
			o.SalaryRange,
			strings.Join(o.Skills, ", "),
			o.ApplicationURL,
		}
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return err
		}

		if o.ApplicationURL != "" {
			link := cell(len(values), row)
			if err := f.SetCellHyperLink(sheet, link, o.ApplicationURL, "External"); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, link, link, linkStyle); err != nil {
				return err
			}
		}
	}

	if len(rows) > 0 {
		last := cell(len(offerHeaders), len(rows)+1)
		if err := f.AutoFilter(sheet, "A1:"+last, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func createKeyPointsSheet(f *excelize.File, rows []Row) error {
	sheet := KeyPointsSheet
	if err := f.SetColWidth(sheet, "A", "A", 35); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "C", 80); err != nil {
		return err
	}
	if err := writeHeaders(f, sheet, []string{"Poste", "Entreprise", "Point clé"}); err != nil {
		return err
	}

	row := 2
	for _, r := range rows {
		for _, point := range r.Offer.KeyPoints {
			values := []any{r.Offer.Title, r.Offer.Company, point}
			if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func createSummarySheet(f *excelize.File, rows []Row, generated time.Time) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	contracts := make(map[types.ContractType]int)
	remote := make(map[types.RemotePolicy]int)
	for _, r := range rows {
		contracts[r.Offer.ContractType]++
		remote[r.Offer.RemotePolicy]++
	}

	lines := [][2]any{
		{"Généré le", generated.Format("2006-01-02 15:04")},
		{"Offres analysées", len(rows)},
	}
	for _, c := range []types.ContractType{
		types.ContractCDI, types.ContractCDD, types.ContractApprenticeship,
		types.ContractInternship, types.ContractFreelance, types.ContractOther,
	} {
		lines = append(lines, [2]any{"Contrat " + contractLabels[c], contracts[c]})
	}
	for _, p := range []types.RemotePolicy{types.RemoteYes, types.RemoteHybrid, types.RemoteNo, types.RemoteUnknown} {
		lines = append(lines, [2]any{"Télétravail " + remoteLabels[p], remote[p]})
	}

	for i, line := range lines {
		row := i + 1
		if err := f.SetCellValue(sheet, cell(1, row), line[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(1, row), labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell(2, row), line[1]); err != nil {
			return err
		}
	}
	return nil
}
