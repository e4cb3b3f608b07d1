package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestTrendPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")
	years := []transform.YearAggregate{{Year: 2024, Cases: 322}, {Year: 2023, Cases: 298}}
	require.NoError(t, TrendPNG(path, years))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngMagic))
	assert.Equal(t, 2024, years[0].Year, "input order untouched")
}

func TestRegionBarsPNG(t *testing.T) {
	regions := []transform.RegionAggregate{
		{Region: dataset.Oriente, Cases: 26},
		{Region: dataset.ValleDeAburra, Cases: 517},
	}
	p, err := RegionBars(regions)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	require.NoError(t, RegionBarsPNG(filepath.Join(t.TempDir(), "regions.png"), regions))
}

func TestEmptyChartsNotComputable(t *testing.T) {
	_, err := Trend(nil)
	assert.ErrorIs(t, err, dataset.ErrInsufficientData)
	err = RegionBarsPNG(filepath.Join(t.TempDir(), "x.png"), nil)
	assert.ErrorIs(t, err, dataset.ErrInsufficientData)
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2022.5, 2024.2)
	require.Len(t, ticks, 2)
	assert.Equal(t, "2023", ticks[0].Label)
}
