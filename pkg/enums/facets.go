package enums

import "fmt"

// Facet names a filterable product attribute. The values double as the query
// parameter names of the listing endpoint.
type Facet string

const (
	FacetOccasion   Facet = "occasion"
	FacetSeason     Facet = "season"
	FacetMood       Facet = "mood"
	FacetColor      Facet = "color"
	FacetType       Facet = "type"
	FacetPriceRange Facet = "priceRange"
)

// Facets lists every facet in display order.
var Facets = []Facet{
	FacetOccasion,
	FacetSeason,
	FacetMood,
	FacetColor,
	FacetType,
	FacetPriceRange,
}

// String implements fmt.Stringer.
func (f Facet) String() string {
	return string(f)
}

// MultiValued reports whether products carry a list of codes for the facet
// (stored in product_facets) rather than a single column.
func (f Facet) MultiValued() bool {
	switch f {
	case FacetOccasion, FacetSeason, FacetMood, FacetColor:
		return true
	}
	return false
}

// Values returns the closed domain of the facet in declaration order.
func (f Facet) Values() []string {
	switch f {
	case FacetOccasion:
		return toStrings(validOccasions)
	case FacetSeason:
		return toStrings(validSeasons)
	case FacetMood:
		return toStrings(validMoods)
	case FacetColor:
		return toStrings(validColors)
	case FacetType:
		return toStrings(validProductTypes)
	case FacetPriceRange:
		return toStrings(validPriceRanges)
	}
	return nil
}

// ParseFacetValue validates value against the facet's domain.
func ParseFacetValue(f Facet, value string) (string, error) {
	for _, candidate := range f.Values() {
		if candidate == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q", f, value)
}

// Occasion is the occasion a product suits.
type Occasion string

const (
	OccasionBirthday       Occasion = "BIRTHDAY"
	OccasionAnniversary    Occasion = "ANNIVERSARY"
	OccasionValentinesDay  Occasion = "VALENTINES_DAY"
	OccasionMothersDay     Occasion = "MOTHERS_DAY"
	OccasionCongratulation Occasion = "CONGRATULATIONS"
	OccasionGetWellSoon    Occasion = "GET_WELL_SOON"
	OccasionSympathy       Occasion = "SYMPATHY"
	OccasionJustBecause    Occasion = "JUST_BECAUSE"
)

var validOccasions = []Occasion{
	OccasionBirthday,
	OccasionAnniversary,
	OccasionValentinesDay,
	OccasionMothersDay,
	OccasionCongratulation,
	OccasionGetWellSoon,
	OccasionSympathy,
	OccasionJustBecause,
}

// Season is the season a product is offered in.
type Season string

const (
	SeasonSpring    Season = "SPRING"
	SeasonSummer    Season = "SUMMER"
	SeasonFall      Season = "FALL"
	SeasonWinter    Season = "WINTER"
	SeasonAllSeason Season = "ALL_SEASON"
)

var validSeasons = []Season{
	SeasonSpring,
	SeasonSummer,
	SeasonFall,
	SeasonWinter,
	SeasonAllSeason,
}

// Mood is the feeling an arrangement conveys.
type Mood string

const (
	MoodRomantic      Mood = "ROMANTIC"
	MoodCheerful      Mood = "CHEERFUL"
	MoodElegant       Mood = "ELEGANT"
	MoodPeaceful      Mood = "PEACEFUL"
	MoodVibrant       Mood = "VIBRANT"
	MoodSophisticated Mood = "SOPHISTICATED"
)

var validMoods = []Mood{
	MoodRomantic,
	MoodCheerful,
	MoodElegant,
	MoodPeaceful,
	MoodVibrant,
	MoodSophisticated,
}

// Color is a dominant flower color.
type Color string

const (
	ColorRed    Color = "RED"
	ColorPink   Color = "PINK"
	ColorWhite  Color = "WHITE"
	ColorYellow Color = "YELLOW"
	ColorPurple Color = "PURPLE"
	ColorOrange Color = "ORANGE"
	ColorGreen  Color = "GREEN"
	ColorPastel Color = "PASTEL"
	ColorMixed  Color = "MIXED"
)

var validColors = []Color{
	ColorRed,
	ColorPink,
	ColorWhite,
	ColorYellow,
	ColorPurple,
	ColorOrange,
	ColorGreen,
	ColorPastel,
	ColorMixed,
}

// ProductType is the kind of product.
type ProductType string

const (
	ProductTypeBouquet     ProductType = "BOUQUET"
	ProductTypeRose        ProductType = "ROSE"
	ProductTypeTulip       ProductType = "TULIP"
	ProductTypeLily        ProductType = "LILY"
	ProductTypeOrchid      ProductType = "ORCHID"
	ProductTypeSunflower   ProductType = "SUNFLOWER"
	ProductTypeSucculent   ProductType = "SUCCULENT"
	ProductTypePlant       ProductType = "PLANT"
	ProductTypeArrangement ProductType = "ARRANGEMENT"
)

var validProductTypes = []ProductType{
	ProductTypeBouquet,
	ProductTypeRose,
	ProductTypeTulip,
	ProductTypeLily,
	ProductTypeOrchid,
	ProductTypeSunflower,
	ProductTypeSucculent,
	ProductTypePlant,
	ProductTypeArrangement,
}

// IsValid reports whether the value is a known ProductType.
func (t ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
