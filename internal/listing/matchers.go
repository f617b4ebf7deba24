package listing

import (
	"strconv"
	"strings"
	"unicode"
)

// ExactFold matches when the field equals the value, ignoring case and
// surrounding space.
func ExactFold[T any](field func(T) string) Matcher[T] {
	return func(rec T, value string) bool {
		return strings.EqualFold(strings.TrimSpace(field(rec)), value)
	}
}

// ContainsFold matches when the field contains the value, ignoring case.
func ContainsFold[T any](field func(T) string) Matcher[T] {
	return func(rec T, value string) bool {
		return strings.Contains(strings.ToLower(field(rec)), strings.ToLower(value))
	}
}

// AnyContainsFold matches when any of the fields contains the value. It backs
// free-text search over several columns.
func AnyContainsFold[T any](fields ...func(T) string) Matcher[T] {
	return func(rec T, value string) bool {
		v := strings.ToLower(value)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(rec)), v) {
				return true
			}
		}
		return false
	}
}

// Bucket is a named price band. Max of zero means unbounded.
type Bucket struct {
	Name string
	Min  float64
	Max  float64
}

// PriceBuckets are the bands offered by the price filter.
var PriceBuckets = []Bucket{
	{Name: "under-5000", Min: 0, Max: 5000},
	{Name: "5000-10000", Min: 5000, Max: 10000},
	{Name: "10000-20000", Min: 10000, Max: 20000},
	{Name: "above-20000", Min: 20000},
}

// FindBucket looks a bucket up by name.
func FindBucket(name string) (Bucket, bool) {
	for _, b := range PriceBuckets {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Bucket{}, false
}

// Contains reports whether the range [lo, hi] falls in the bucket. The low
// end must lie in [Min, Max) so a range belongs to at most one bucket; the
// high end may touch Max, as in "₦5,000 – ₦10,000".
func (b Bucket) Contains(lo, hi float64) bool {
	if b.Max == 0 {
		return lo >= b.Min
	}
	return lo >= b.Min && lo < b.Max && hi <= b.Max
}

// ParsePriceRange parses a display range such as "₦3,000 – ₦4,000" or a
// single price such as "₦7,500" into numeric bounds.
func ParsePriceRange(display string) (lo, hi float64, ok bool) {
	parts := strings.FieldsFunc(display, func(r rune) bool {
		return r == '–' || r == '—' || r == '-'
	})

	var bounds []float64
	for _, p := range parts {
		v, err := parseAmount(p)
		if err != nil {
			continue
		}
		bounds = append(bounds, v)
	}

	switch len(bounds) {
	case 1:
		return bounds[0], bounds[0], true
	case 2:
		lo, hi = bounds[0], bounds[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	default:
		return 0, 0, false
	}
}

func parseAmount(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}

// PriceBucket matches records whose display price range falls into the named
// bucket. Unknown bucket names and unparseable ranges never match.
func PriceBucket[T any](field func(T) string) Matcher[T] {
	return func(rec T, value string) bool {
		b, ok := FindBucket(value)
		if !ok {
			return false
		}
		lo, hi, ok := ParsePriceRange(field(rec))
		if !ok {
			return false
		}
		return b.Contains(lo, hi)
	}
}
