// ABOUTME: Raw extraction output shared by all strategies
// ABOUTME: TimeValue models the string-or-integer time shapes found in recipe markup

package extract

// Strategy names recorded on extraction results.
const (
	StrategyJSONLD            = "jsonld"
	StrategyMicrodata         = "microdata"
	StrategyHeuristic         = "heuristic"
	StrategyHeadless          = "headless"
	StrategyHeadlessJSONLD    = "headless_jsonld"
	StrategyHeadlessHeuristic = "headless_heuristic"
)

type timeKind int

const (
	timeNone timeKind = iota
	timeMinutes
	timeISO
)

// TimeValue is a tagged union over the raw time shapes recipe markup uses:
// absent, a plain integer minute count, or an ISO-8601 duration string.
type TimeValue struct {
	kind    timeKind
	minutes int
	text    string
}

// NoTime returns the absent TimeValue.
func NoTime() TimeValue {
	return TimeValue{}
}

// MinutesValue wraps an already-in-minutes integer.
func MinutesValue(minutes int) TimeValue {
	return TimeValue{kind: timeMinutes, minutes: minutes}
}

// ISOValue wraps an ISO-8601 duration string.
func ISOValue(text string) TimeValue {
	return TimeValue{kind: timeISO, text: text}
}

// AsMinutes returns the integer minute form, if that is the variant held.
func (t TimeValue) AsMinutes() (int, bool) {
	return t.minutes, t.kind == timeMinutes
}

// AsISO returns the ISO-8601 duration form, if that is the variant held.
func (t TimeValue) AsISO() (string, bool) {
	return t.text, t.kind == timeISO
}

// IsZero reports whether no time value is present.
func (t TimeValue) IsZero() bool {
	return t.kind == timeNone
}

// RawRecipe is the loosely-typed field map a strategy pulls out of a page,
// before normalization.
type RawRecipe struct {
	Title       string
	Ingredients []string
	Steps       []string
	Servings    string
	PrepTime    TimeValue
	CookTime    TimeValue
	TotalTime   TimeValue
	ImageURL    string
	Author      string
}

// Empty reports whether the extraction found nothing usable.
func (r *RawRecipe) Empty() bool {
	return r == nil || (r.Title == "" && len(r.Ingredients) == 0 && len(r.Steps) == 0)
}
