package dataset

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Point parses the raw Ubicacion text, e.g. "POINT (-75.5636 6.2442)".
// The stored location is never rewritten.
func (r Record) Point() (lon, lat float64, err error) {
	s := strings.TrimSpace(r.Location)
	if s == "" {
		return 0, 0, fmt.Errorf("row %d: empty location", r.Row)
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return 0, 0, fmt.Errorf("row %d: parse location %q: %w", r.Row, s, err)
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, fmt.Errorf("row %d: location is %T, want point", r.Row, g)
	}
	return p.X(), p.Y(), nil
}
