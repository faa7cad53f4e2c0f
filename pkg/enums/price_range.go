package enums

import "fmt"

// PriceRange buckets a product price. Bounds are in cents, lower inclusive,
// upper exclusive.
type PriceRange string

const (
	PriceRangeUnder25 PriceRange = "UNDER_25"
	PriceRange25To50  PriceRange = "RANGE_25_50"
	PriceRange50To75  PriceRange = "RANGE_50_75"
	PriceRange75To100 PriceRange = "RANGE_75_100"
	PriceRangeOver100 PriceRange = "OVER_100"
)

const priceRangeNoCeiling = -1

var validPriceRanges = []PriceRange{
	PriceRangeUnder25,
	PriceRange25To50,
	PriceRange50To75,
	PriceRange75To100,
	PriceRangeOver100,
}

var priceRangeBounds = map[PriceRange][2]int{
	PriceRangeUnder25: {0, 2500},
	PriceRange25To50:  {2500, 5000},
	PriceRange50To75:  {5000, 7500},
	PriceRange75To100: {7500, 10000},
	PriceRangeOver100: {10000, priceRangeNoCeiling},
}

// String implements fmt.Stringer.
func (p PriceRange) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PriceRange.
func (p PriceRange) IsValid() bool {
	_, ok := priceRangeBounds[p]
	return ok
}

// Bounds returns the cent bounds of the bucket. max is -1 for the open-ended
// top bucket.
func (p PriceRange) Bounds() (min, max int, ok bool) {
	b, ok := priceRangeBounds[p]
	return b[0], b[1], ok
}

// Contains reports whether a price in cents falls into the bucket.
func (p PriceRange) Contains(cents int) bool {
	min, max, ok := p.Bounds()
	if !ok || cents < min {
		return false
	}
	return max == priceRangeNoCeiling || cents < max
}

// PriceRangeFor returns the bucket a price in cents belongs to.
func PriceRangeFor(cents int) (PriceRange, error) {
	if cents < 0 {
		return "", fmt.Errorf("price %d cannot be negative", cents)
	}
	for _, candidate := range validPriceRanges {
		if candidate.Contains(cents) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no price range for %d", cents)
}
