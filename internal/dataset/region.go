package dataset

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Region is one of the nine administrative subregions of Antioquia.
type Region int

const (
	RegionUnknown Region = iota
	ValleDeAburra
	BajoCauca
	MagdalenaMedio
	Nordeste
	Norte
	Occidente
	Oriente
	Suroeste
	Uraba
)

var regionNames = [...]string{
	RegionUnknown:  "",
	ValleDeAburra:  "Valle de Aburrá",
	BajoCauca:      "Bajo Cauca",
	MagdalenaMedio: "Magdalena Medio",
	Nordeste:       "Nordeste",
	Norte:          "Norte",
	Occidente:      "Occidente",
	Oriente:        "Oriente",
	Suroeste:       "Suroeste",
	Uraba:          "Urabá",
}

var regionByKey = func() map[string]Region {
	m := make(map[string]Region, len(regionNames))
	for i, name := range regionNames {
		if name == "" {
			continue
		}
		m[FoldName(name)] = Region(i)
	}
	return m
}()

// AllRegions lists the fixed domain in canonical order.
func AllRegions() []Region {
	out := make([]Region, 0, len(regionNames)-1)
	for i := 1; i < len(regionNames); i++ {
		out = append(out, Region(i))
	}
	return out
}

func (r Region) String() string {
	if r <= RegionUnknown || int(r) >= len(regionNames) {
		return "unknown"
	}
	return regionNames[r]
}

// Valid reports whether r belongs to the fixed domain.
func (r Region) Valid() bool { return r > RegionUnknown && int(r) < len(regionNames) }

// ParseRegion resolves a region name case- and accent-insensitively.
func ParseRegion(s string) (Region, error) {
	if r, ok := regionByKey[FoldName(s)]; ok {
		return r, nil
	}
	return RegionUnknown, fmt.Errorf("unknown region %q", s)
}

// MarshalText encodes an uncoerced region as the empty string.
func (r Region) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

func (r *Region) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RegionUnknown
		return nil
	}
	v, err := ParseRegion(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// FoldName lowercases s, strips diacritics and collapses inner whitespace so
// "Valle de Aburrá" and "VALLE DE  ABURRA" compare equal.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
