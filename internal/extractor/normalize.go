package extractor

import (
	"math"
	"strconv"
	"strings"
)

// FormulaValue mirrors a formula cell whose cached result is carried
// alongside the expression. Only the cached result matters for extraction.
type FormulaValue struct {
	Expr   string
	Result interface{}
}

// Num reduces any raw cell value to a finite float64. It is total: no input
// panics or produces NaN/Inf, and a malformed cell simply becomes 0 so one
// bad cell can never abort the pipeline.
//
// Strings are trimmed and stripped of '%' and thousands-separator commas
// before parsing, so locale-formatted entries like "1,250" or "85 %" resolve
// to their numeric value.
func Num(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case FormulaValue:
		return Num(x.Result)
	case *FormulaValue:
		if x == nil {
			return 0
		}
		return Num(x.Result)
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case string:
		cleaned := strings.TrimSpace(x)
		cleaned = strings.ReplaceAll(cleaned, "%", "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return 0
		}
		n, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return finite(n)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		// Rich text, shared strings and anything else without a numeric
		// interpretation.
		return 0
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// numOK is Num with a found flag, distinguishing "cell holds 0" from "cell
// holds nothing numeric". The max-mark scan needs the distinction.
func numOK(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false
		}
		cleaned := strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(x), "%", ""), ",", "")
		if _, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64); err != nil {
			return 0, false
		}
		return Num(v), true
	default:
		return Num(v), true
	}
}
