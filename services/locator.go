package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
)

// ErrNoListings means the response holds no usable listing container.
var ErrNoListings = errors.New("no listings container found")

// LocateListings finds the sequence of listing records inside a decoded
// response of unknown shape.
//
// For an object, the candidate keys are checked in order and the first one
// holding an array wins, even an empty one. Failing that, the first entry (in
// document order) holding a non-empty array whose first element is an object
// wins. A top-level array is returned as is.
func LocateListings(doc any, candidates []string) ([]models.RawListing, bool) {
	switch d := doc.(type) {
	case []any:
		return toRecords(d), true
	case *Object:
		return locateIn(d.Keys(), d.Get, candidates)
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return locateIn(keys, func(k string) (any, bool) {
			v, ok := d[k]
			return v, ok
		}, candidates)
	}
	return nil, false
}

func locateIn(keys []string, get func(string) (any, bool), candidates []string) ([]models.RawListing, bool) {
	for _, k := range candidates {
		if v, ok := get(k); ok {
			if arr, isArr := v.([]any); isArr {
				return toRecords(arr), true
			}
		}
	}

	for _, k := range keys {
		v, _ := get(k)
		arr, isArr := v.([]any)
		if !isArr || len(arr) == 0 {
			continue
		}
		if isRecord(arr[0]) {
			return toRecords(arr), true
		}
	}
	return nil, false
}

// FindListings is LocateListings for the run: a missing or empty container is
// an error carrying a short description of the response shape.
func FindListings(doc any, candidates []string) ([]models.RawListing, error) {
	listings, ok := LocateListings(doc, candidates)
	if !ok {
		return nil, fmt.Errorf("%w (response shape: %s)", ErrNoListings, DescribeShape(doc))
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w (container is empty)", ErrNoListings)
	}
	return listings, nil
}

// DescribeShape summarises a decoded document for troubleshooting output.
func DescribeShape(doc any) string {
	switch d := doc.(type) {
	case *Object:
		return "object with keys [" + strings.Join(d.Keys(), ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "object with keys [" + strings.Join(keys, ", ") + "]"
	case []any:
		return fmt.Sprintf("array of %d", len(d))
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", d)
	}
}

func isRecord(v any) bool {
	switch v.(type) {
	case *Object, map[string]any, models.RawListing:
		return true
	}
	return false
}

// toRecords converts array elements to raw listings. Elements that are not
// objects become empty records so every element still yields one listing.
func toRecords(arr []any) []models.RawListing {
	out := make([]models.RawListing, 0, len(arr))
	for _, el := range arr {
		switch e := el.(type) {
		case *Object:
			out = append(out, models.RawListing(e.Map()))
		case map[string]any:
			out = append(out, models.RawListing(e))
		case models.RawListing:
			out = append(out, e)
		default:
			out = append(out, models.RawListing{})
		}
	}
	return out
}
