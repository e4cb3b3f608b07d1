package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/suicidios_antioquia_sample.csv"

const header = "NombreMunicipio,CodigoMunicipio,Ubicacion,NombreRegion,CodigoRegion,Anio,CausaMortalidad,TipoPoblacionObjetivo,NumeroPoblacionObjetivo,NumeroCasos\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadFixture(t *testing.T) {
	tbl, err := New(fixture).Load()
	require.NoError(t, err)
	require.Equal(t, 24, tbl.Len())

	first := tbl.At(0)
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "Medellín", first.MunicipalityName)
	assert.Equal(t, 5001, first.MunicipalityCode)
	assert.Equal(t, dataset.ValleDeAburra, first.Region)
	assert.Equal(t, int64(2573220), first.Population)
	assert.Equal(t, "2,573,220", first.PopulationText)
	assert.Equal(t, int64(190), first.Cases)
	assert.Equal(t, dataset.PopulationType("Total"), first.PopulationType)

	assert.Len(t, tbl.Regions(), 9)
	assert.Equal(t, dataset.ValleDeAburra, tbl.Regions()[0])
	assert.Equal(t, []dataset.PopulationType{"Total"}, tbl.PopulationTypes())
}

func TestLoadIsMemoized(t *testing.T) {
	var reads atomic.Int32
	l := New(fixture)
	l.read = func(p string) (*dataset.Table, error) {
		reads.Add(1)
		return ReadCSV(p)
	}

	var wg sync.WaitGroup
	tables := make([]*dataset.Table, 8)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i], _ = l.Load()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), reads.Load())
	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}

	l.Reset()
	again, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, int32(2), reads.Load())
	assert.Equal(t, tables[0].Records(), again.Records())
}

func TestLoadErrorIsMemoizedUntilReset(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "later.csv")
	l := New(p)

	_, err := l.Load()
	require.ErrorIs(t, err, dataset.ErrDataSource)

	require.NoError(t, os.WriteFile(p, []byte(header+"Bello,5088,POINT (-75.5 6.3),Valle de Aburrá,1,2024,Suicidios,Total,\"561,000\",44\n"), 0o644))
	_, err = l.Load()
	require.ErrorIs(t, err, dataset.ErrDataSource)

	l.Reset()
	tbl, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestReadMissingColumns(t *testing.T) {
	p := writeCSV(t, "NombreMunicipio,CodigoMunicipio,Anio\nBello,5088,2024\n")
	_, err := ReadCSV(p)
	var dse *dataset.DataSourceError
	require.True(t, errors.As(err, &dse))
	assert.Contains(t, dse.Missing, "NumeroCasos")
	assert.NotContains(t, dse.Missing, "Anio")
}

func TestReadEmptyFile(t *testing.T) {
	_, err := ReadCSV(writeCSV(t, ""))
	assert.ErrorIs(t, err, dataset.ErrDataSource)
}

func TestReadToleratesBOMAndReorderedHeader(t *testing.T) {
	cols := strings.Split(strings.TrimSpace(header), ",")
	cols[0], cols[9] = cols[9], cols[0]
	body := "\ufeff" + strings.Join(cols, ",") + "\n" +
		"7,5088,POINT (-75.5 6.3),Valle de Aburrá,1,2024,Suicidios,Total,\"561,000\",Bello\n"
	tbl, err := ReadCSV(writeCSV(t, body))
	require.NoError(t, err)
	assert.Equal(t, "Bello", tbl.At(0).MunicipalityName)
	assert.Equal(t, int64(7), tbl.At(0).Cases)
}

func TestReadParseErrors(t *testing.T) {
	cases := map[string]struct {
		row    string
		column string
	}{
		"bad year":        {"Bello,5088,P,Valle de Aburrá,1,dos mil,Suicidios,Total,\"561,000\",44\n", dataset.HeaderYear},
		"negative cases":  {"Bello,5088,P,Valle de Aburrá,1,2024,Suicidios,Total,\"561,000\",-1\n", dataset.HeaderCases},
		"bad code":        {"Bello,x,P,Valle de Aburrá,1,2024,Suicidios,Total,\"561,000\",4\n", dataset.HeaderMunicipalityCode},
		"population text": {"Bello,5088,P,Valle de Aburrá,1,2024,Suicidios,Total,\"561 mil\",4\n", dataset.HeaderPopulation},
		"unknown region":  {"Bello,5088,P,Amazonas,1,2024,Suicidios,Total,\"561,000\",4\n", dataset.HeaderRegionName},
		"population frac": {"Bello,5088,P,Valle de Aburrá,1,2024,Suicidios,Total,561000.5,4\n", dataset.HeaderPopulation},
		"misgrouped pop":  {"Bello,5088,P,Valle de Aburrá,1,2024,Suicidios,Total,\"56,10,00\",4\n", dataset.HeaderPopulation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			valid := "Envigado,5266,P,Valle de Aburrá,1,2024,Suicidios,Total,\"246,000\",19\n"
			_, err := New(writeCSV(t, header+valid+tc.row)).Load()
			var pe *dataset.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, 2, pe.Row)
			assert.Equal(t, tc.column, pe.Column)
		})
	}
}

func TestLoadDatasetUsesDefaultPath(t *testing.T) {
	ResetDataset()
	t.Cleanup(ResetDataset)
	_, err := LoadDataset()
	var dse *dataset.DataSourceError
	require.ErrorAs(t, err, &dse)
	assert.Equal(t, DefaultPath, dse.Path)
}
