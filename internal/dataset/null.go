package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float that may be undefined, e.g. a rate over a zero
// population or the growth of a group's first period. The zero value is
// undefined.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Undefined is the explicit "not computable" marker.
var Undefined = NullFloat{}

// Defined wraps v. NaN and infinities collapse to Undefined.
func Defined(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return NullFloat{Float64: v, Valid: true}
}

// Or returns the value, or def when undefined.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// Format renders the value with prec decimals, or "n/a".
func (n NullFloat) Format(prec int) string {
	if !n.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(n.Float64, 'f', prec, 64)
}

func (n NullFloat) String() string { return n.Format(2) }

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Defined(v)
	return nil
}
