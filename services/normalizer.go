package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

// digitRunRegexp captures each run of digits in a price string
var digitRunRegexp = regexp.MustCompile(`\d+`)

// Normalizer maps raw provider records onto NormalizedListing.
type Normalizer struct {
	keys   models.FieldKeys
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer using the given key table.
func NewNormalizer(keys models.FieldKeys, logger *utils.Logger) *Normalizer {
	return &Normalizer{keys: keys, logger: logger}
}

// NormalizeAll normalizes every record, preserving order and count.
func (n *Normalizer) NormalizeAll(raw []models.RawListing) []models.NormalizedListing {
	out := make([]models.NormalizedListing, 0, len(raw))
	var unpriced, unlocated int
	for _, r := range raw {
		l := n.Normalize(r)
		if l.Price == nil {
			unpriced++
		}
		if !l.HasCoordinates() {
			unlocated++
		}
		out = append(out, l)
	}

	n.logger.Info("[normalizer] Normalized %d listings (%d without price, %d without coordinates)",
		len(out), unpriced, unlocated)
	return out
}

// Normalize maps one raw record. It never fails: anything that cannot be
// parsed is left nil.
func (n *Normalizer) Normalize(raw models.RawListing) models.NormalizedListing {
	price, _ := firstPresent(raw, n.keys.Price)

	l := models.NormalizedListing{
		Price:        parsePrice(price),
		PriceDisplay: displayText(price),
		Beds:         parseCount(lookup(raw, n.keys.Beds)),
		Baths:        parseCount(lookup(raw, n.keys.Baths)),
		Cars:         parseCount(lookup(raw, n.keys.Cars)),
		Address:      parseText(lookup(raw, n.keys.Address)),
		URL:          parseText(lookup(raw, n.keys.URL)),
		Lat:          parseCoordinate(lookup(raw, n.keys.Lat), 90),
		Lon:          parseCoordinate(lookup(raw, n.keys.Lon), 180),
	}

	if price != nil && l.Price == nil {
		n.logger.Debug("[normalizer] Unparsable price %q", l.PriceDisplay)
	}
	return l
}

// firstPresent returns the value of the first key present in raw. A key
// holding JSON null still counts as present.
func firstPresent(raw models.RawListing, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func lookup(raw models.RawListing, keys []string) any {
	v, _ := firstPresent(raw, keys)
	return v
}

// parsePrice turns numbers into whole currency units and strings like
// "$450,000" into 450000 by joining every digit run.
func parsePrice(v any) *int {
	switch p := v.(type) {
	case string:
		runs := digitRunRegexp.FindAllString(strings.ReplaceAll(p, ",", ""), -1)
		if len(runs) == 0 {
			return nil
		}
		n, err := strconv.Atoi(strings.Join(runs, ""))
		if err != nil {
			return nil
		}
		return &n
	default:
		return numberToInt(v)
	}
}

// parseCount handles bed/bath/car counts: numbers are truncated, strings
// must hold a plain integer.
func parseCount(v any) *int {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	}
	return numberToInt(v)
}

func numberToInt(v any) *int {
	var f float64
	switch x := v.(type) {
	case int:
		return &x
	case int64:
		n := int(x)
		return &n
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n := int(i)
			return &n
		}
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = x
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return nil
	}
	n := int(f)
	return &n
}

func parseCoordinate(v any, limit float64) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if !inRange(f, limit) {
		return nil
	}
	return &f
}

// inRange reports whether f is a usable coordinate within ±limit degrees.
func inRange(f, limit float64) bool {
	return !math.IsNaN(f) && math.Abs(f) <= limit
}

// parseText accepts strings and numbers. Nested address objects are joined
// from their string parts in document order.
func parseText(v any) *string {
	var s string
	switch x := v.(type) {
	case *Object:
		var parts []string
		for _, k := range x.Keys() {
			if part, ok := x.values[k].(string); ok && strings.TrimSpace(part) != "" {
				parts = append(parts, strings.TrimSpace(part))
			}
		}
		s = strings.Join(parts, ", ")
	default:
		s = displayText(v)
	}
	if s == "" {
		return nil
	}
	return &s
}

// displayText renders a scalar as text, or "" when it has no text form.
func displayText(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}
