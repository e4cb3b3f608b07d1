// Package chart renders dashboard figures as PNG images.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size of rendered charts.
var (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

var (
	lineColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// Trend draws cases per year as a line with markers.
func Trend(years []transform.YearAggregate) (*plot.Plot, error) {
	if len(years) == 0 {
		return nil, &dataset.InsufficientDataError{Statistic: "trend chart", Need: 1, Got: 0}
	}
	ys := append([]transform.YearAggregate(nil), years...)
	sort.Slice(ys, func(i, j int) bool { return ys[i].Year < ys[j].Year })

	p := plot.New()
	p.Title.Text = "Casos de suicidio por año"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Año"
	p.Y.Label.Text = "Casos"

	points := make(plotter.XYs, len(ys))
	for i, y := range ys {
		points[i].X = float64(y.Year)
		points[i].Y = float64(y.Cases)
	}
	line, marks, err := plotter.NewLinePoints(points)
	if err != nil {
		return nil, fmt.Errorf("trend line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	marks.GlyphStyle.Color = lineColor

	p.Add(plotter.NewGrid(), line, marks)
	p.Y.Min = 0
	p.X.Tick.Marker = yearTicks{}
	return p, nil
}

// RegionBars draws cases per region, largest first.
func RegionBars(regions []transform.RegionAggregate) (*plot.Plot, error) {
	if len(regions) == 0 {
		return nil, &dataset.InsufficientDataError{Statistic: "region chart", Need: 1, Got: 0}
	}
	rs := append([]transform.RegionAggregate(nil), regions...)
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Cases > rs[j].Cases })

	p := plot.New()
	p.Title.Text = "Casos por subregión"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Casos"

	values := make(plotter.Values, len(rs))
	labels := make([]string, len(rs))
	for i, r := range rs {
		values[i] = float64(r.Cases)
		labels[i] = r.Region.String()
	}
	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("region bars: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	return p, nil
}

// WritePNG renders p as a PNG of the package size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// TrendPNG writes the yearly trend chart to path.
func TrendPNG(path string, years []transform.YearAggregate) error {
	p, err := Trend(years)
	if err != nil {
		return err
	}
	return utils.SafeWrite(path, func(w io.Writer) error { return WritePNG(w, p) })
}

// RegionBarsPNG writes the region bar chart to path.
func RegionBarsPNG(path string, regions []transform.RegionAggregate) error {
	p, err := RegionBars(regions)
	if err != nil {
		return err
	}
	return utils.SafeWrite(path, func(w io.Writer) error { return WritePNG(w, p) })
}

// yearTicks labels every whole year in range.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for y := math.Ceil(lo); y <= hi; y++ {
		ticks = append(ticks, plot.Tick{Value: y, Label: fmt.Sprintf("%.0f", y)})
	}
	return ticks
}
