package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DatePreference selects which side of a compound range written into a single
// date field ("August 2023 - February 2024") the caller wants.
type DatePreference int

const (
	PreferStart DatePreference = iota
	PreferEnd
)

// presentWords are "still employed here" markers, compared after lowercasing
// and accent folding. English and French spellings.
var presentWords = map[string]struct{}{
	"present":         {},
	"current":         {},
	"now":             {},
	"today":           {},
	"ongoing":         {},
	"actuel":          {},
	"actuellement":    {},
	"maintenant":      {},
	"aujourd'hui":     {},
	"en cours":        {},
	"en poste":        {},
	"a ce jour":       {},
	"jusqu'a present": {},
}

// monthsByName maps folded English and French month names (full and
// abbreviated) to their month number.
var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January, "janvier": time.January, "janv": time.January,
	"february": time.February, "feb": time.February, "fevrier": time.February, "fevr": time.February, "fev": time.February,
	"march": time.March, "mar": time.March, "mars": time.March,
	"april": time.April, "apr": time.April, "avril": time.April, "avr": time.April,
	"may": time.May, "mai": time.May,
	"june": time.June, "jun": time.June, "juin": time.June,
	"july": time.July, "jul": time.July, "juillet": time.July, "juil": time.July,
	"august": time.August, "aug": time.August, "aout": time.August,
	"september": time.September, "sep": time.September, "sept": time.September, "septembre": time.September,
	"october": time.October, "oct": time.October, "octobre": time.October,
	"november": time.November, "nov": time.November, "novembre": time.November,
	"december": time.December, "dec": time.December, "decembre": time.December,
}

var accentFolder = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"û", "u", "ù", "u", "ü", "u",
	"ç", "c",
	"’", "'",
)

var (
	monthYearRe  = regexp.MustCompile(`^([a-z']+)\.?,?\s+(\d{4})$`)
	yearOnlyRe   = regexp.MustCompile(`^(\d{4})$`)
	monthSlashRe = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{4})$`)
	yearSlashRe  = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})$`)
	yearRangeRe  = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`)
	rangeWordRe  = regexp.MustCompile(`(?i)\s+(?:to|à)\s+`)
)

func foldDate(s string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// SplitDateRange detects a compound range expressed within a single date field
// and splits it into start and end components. Separators: en/em dash, spaced
// hyphen, year-to-year hyphen, and the words "to"/"à". A bare hyphen between
// digits is not a separator, so "2020-01" stays a single date.
func SplitDateRange(raw string) (string, string, bool) {
	raw = strings.TrimSpace(raw)

	for _, sep := range []string{"–", "—", " - "} {
		if i := strings.Index(raw, sep); i >= 0 {
			start := strings.TrimSpace(raw[:i])
			end := strings.TrimSpace(raw[i+len(sep):])
			if start != "" && end != "" {
				return start, end, true
			}
		}
	}

	if m := yearRangeRe.FindStringSubmatch(raw); m != nil {
		return m[1], m[2], true
	}

	if loc := rangeWordRe.FindStringIndex(raw); loc != nil {
		start := strings.TrimSpace(raw[:loc[0]])
		end := strings.TrimSpace(raw[loc[1]:])
		if start != "" && end != "" {
			return start, end, true
		}
	}

	return "", "", false
}

// HasDateRange reports whether the field holds a compound range.
func HasDateRange(raw string) bool {
	_, _, ok := SplitDateRange(raw)
	return ok
}

// ParseCVDate parses a free-form CV date string down to month granularity.
// Rules, in order: "present"-equivalents resolve to now; compound ranges are
// split and the preferred side parsed; then a general calendar parse gated to
// plausible years; then explicit Month-Year (EN/FR, accent-insensitive),
// year-only, and numeric month/year patterns. Returns ok=false when nothing
// matches; the caller records a DateIssue, parsing never fails hard.
func ParseCVDate(raw string, pref DatePreference, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if _, ok := presentWords[foldDate(raw)]; ok {
		return monthOf(now), true
	}

	if start, end, ok := SplitDateRange(raw); ok {
		side := start
		if pref == PreferEnd {
			side = end
		}
		return ParseCVDate(side, pref, now)
	}

	return parseSingleDate(raw, now)
}

func parseSingleDate(raw string, now time.Time) (time.Time, bool) {
	// General-purpose calendar parse first. Its guesses default to implausible
	// years on partial input, so the result is only accepted inside
	// (1900, current year + 1].
	if t, err := dateparse.ParseAny(raw); err == nil && plausibleYear(t.Year(), now) {
		return monthOf(t), true
	}

	folded := foldDate(raw)

	if m := monthYearRe.FindStringSubmatch(folded); m != nil {
		if month, ok := monthsByName[m[1]]; ok {
			year, _ := strconv.Atoi(m[2])
			if plausibleYear(year, now) {
				return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	if m := yearOnlyRe.FindStringSubmatch(folded); m != nil {
		year, _ := strconv.Atoi(m[1])
		if plausibleYear(year, now) {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	if m := monthSlashRe.FindStringSubmatch(folded); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && plausibleYear(year, now) {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	if m := yearSlashRe.FindStringSubmatch(folded); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && plausibleYear(year, now) {
			return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

func plausibleYear(year int, now time.Time) bool {
	return year > 1900 && year <= now.Year()+1
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the whole-month distance from a to b at month
// granularity. Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func formatYearMonth(t time.Time) string {
	return t.Format("2006-01")
}
