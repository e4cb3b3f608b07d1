package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/loader"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func enrichedFixture(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := loader.New("../../testdata/suicidios_antioquia_sample.csv").Load()
	require.NoError(t, err)
	view, err := transform.View(tbl, transform.Criteria{})
	require.NoError(t, err)
	return view
}

func TestCSVReadsBackThroughLoader(t *testing.T) {
	view := enrichedFixture(t)
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, SaveCSV(path, view))

	back, err := loader.New(path).Load()
	require.NoError(t, err)
	require.Equal(t, view.Len(), back.Len())
	for i := 0; i < view.Len(); i++ {
		assert.Equal(t, view.At(i).Population, back.At(i).Population)
		assert.Equal(t, view.At(i).Cases, back.At(i).Cases)
		assert.Equal(t, view.At(i).Region, back.At(i).Region)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"2,573,220",190,7.3837,medium`)
}

func TestWriteXLSXSheets(t *testing.T) {
	view := enrichedFixture(t)
	ranking, err := stats.Rank(view, stats.RankOptions{By: stats.MetricRate, TopN: 5})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Workbook{Records: view, Regions: transform.GroupByRegion(view), Ranking: ranking}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{SheetRecords, SheetRegions, SheetRanking}, f.GetSheetList())

	rows, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	assert.Len(t, rows, 25)
	assert.Equal(t, "Medellín", rows[1][0])

	top, err := f.GetCellValue(SheetRanking, "C2")
	require.NoError(t, err)
	assert.Equal(t, ranking[0].Name, top)

	assert.Error(t, WriteXLSX(&buf, Workbook{}))
}

func TestRunWritesManifest(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	view := enrichedFixture(t)
	dir := filepath.Join(t.TempDir(), "export")
	formats, err := ParseFormats(nil)
	require.NoError(t, err)

	m, err := Run(dir, Bundle{Source: "sample.csv", View: view, Regions: transform.GroupByRegion(view)}, formats)
	require.NoError(t, err)
	assert.Equal(t, []string{"registros.csv", "dashboard.xlsx", "dashboard.json"}, m.Files)
	assert.Len(t, m.RunID, 36)

	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	var back Manifest
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, m.RunID, back.RunID)
	assert.Equal(t, "2025-03-03T12:00:00Z", back.GeneratedAt.Format(time.RFC3339))
	assert.Equal(t, 24, back.Records)
	assert.Equal(t, "all", back.Filter)

	doc, err := os.ReadFile(filepath.Join(dir, "dashboard.json"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"region": "Valle de Aburrá"`)
}

func TestParseFormats(t *testing.T) {
	f, err := ParseFormats([]string{"CSV", "json"})
	require.NoError(t, err)
	assert.Equal(t, []Format{FormatCSV, FormatJSON}, f)
	_, err = ParseFormats([]string{"parquet"})
	assert.Error(t, err)
}
