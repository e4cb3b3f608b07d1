package export

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetRecords = "Registros"
	SheetRegions = "Regiones"
	SheetRanking = "Ranking"
	SheetRisk    = "Riesgo"
)

// Workbook bundles the views written to one XLSX file. Nil sections are
// skipped.
type Workbook struct {
	Records *dataset.Table
	Regions []transform.RegionAggregate
	Ranking []stats.Ranked
	Risk    []stats.RiskScore
}

// WriteXLSX renders wb as an Excel workbook.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	sheet := func(name string, headers []string, rows [][]any) error {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(name, cell, h); err != nil {
				return err
			}
			if err := f.SetColWidth(name, colName(i), colName(i), 18); err != nil {
				return err
			}
		}
		for r, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
		}
		return nil
	}

	if wb.Records != nil {
		var rows [][]any
		for _, r := range wb.Records.Records() {
			rows = append(rows, []any{
				r.MunicipalityName, r.MunicipalityCode, r.Location, r.Region.String(), r.RegionCode, r.Year,
				r.Cause, string(r.PopulationType), r.Population, r.Cases, nullable(r.Rate), string(r.RiskLevel),
			})
		}
		if err := sheet(SheetRecords, RecordHeaders(), rows); err != nil {
			return fmt.Errorf("records sheet: %w", err)
		}
	}
	if wb.Regions != nil {
		var rows [][]any
		for _, g := range wb.Regions {
			rows = append(rows, []any{g.Region.String(), g.Cases, g.Population, nullable(g.Share), nullable(g.Rate), g.Municipalities})
		}
		headers := []string{"Region", "Casos", "Poblacion", "Participacion %", "Tasa por 100k", "Municipios"}
		if err := sheet(SheetRegions, headers, rows); err != nil {
			return fmt.Errorf("regions sheet: %w", err)
		}
	}
	if wb.Ranking != nil {
		var rows [][]any
		for _, r := range wb.Ranking {
			rows = append(rows, []any{r.Position, r.Key, r.Name, r.Region.String(), nullable(r.Value), r.Cases, r.MeanPopulation, nullable(r.Rate)})
		}
		headers := []string{"Posicion", "Codigo", "Nombre", "Region", "Valor", "Casos", "Poblacion media", "Tasa por 100k"}
		if err := sheet(SheetRanking, headers, rows); err != nil {
			return fmt.Errorf("ranking sheet: %w", err)
		}
	}
	if wb.Risk != nil {
		var rows [][]any
		for _, s := range wb.Risk {
			rows = append(rows, []any{s.Code, s.Name, s.Region.String(), s.Cases, nullable(s.Rate), s.Growth, nullable(s.Score), string(s.Level)})
		}
		headers := []string{"Codigo", "Municipio", "Region", "Casos", "Tasa por 100k", "Crecimiento %", "Indice", "Nivel"}
		if err := sheet(SheetRisk, headers, rows); err != nil {
			return fmt.Errorf("risk sheet: %w", err)
		}
	}
	if first {
		return fmt.Errorf("workbook has no sheets")
	}
	return f.Write(w)
}

// SaveXLSX writes wb to path atomically.
func SaveXLSX(path string, wb Workbook) error {
	return utils.SafeWrite(path, func(w io.Writer) error { return WriteXLSX(w, wb) })
}

// nullable leaves undefined values as empty cells.
func nullable(n dataset.NullFloat) any {
	if !n.Valid {
		return nil
	}
	return n.Float64
}

func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}
