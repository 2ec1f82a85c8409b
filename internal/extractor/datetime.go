package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthCodes is deliberately a slice, not a map: month recognition is
// "first code found as substring wins" and must check codes in this exact
// order to stay deterministic.
var monthCodes = []struct {
	code  string
	month time.Month
}{
	{"JAN", time.January},
	{"FEB", time.February},
	{"MAR", time.March},
	{"APR", time.April},
	{"MAY", time.May},
	{"JUN", time.June},
	{"JUL", time.July},
	{"AUG", time.August},
	{"SEP", time.September},
	{"OCT", time.October},
	{"NOV", time.November},
	{"DEC", time.December},
}

var (
	reDayDigits   = regexp.MustCompile(`\d{1,2}`)
	reOrdinals    = regexp.MustCompile(`(?i)(?:st|nd|rd|th)`)
	reDocYear     = regexp.MustCompile(`\b(20\d{2})\b`)
	reDigitsOnly  = regexp.MustCompile(`^\d{4}$`)
)

// DocumentYear infers the single calendar year the whole document is assumed
// to belong to: the first 4-digit "20xx" token, defaulting to the current
// year. Multi-year documents are out of scope.
func DocumentYear(text string) int {
	if m := reDocYear.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			return y
		}
	}
	return time.Now().Year()
}

// ResolveDateTime converts a fuzzy date token plus time token into an
// absolute timestamp for the given year. The second return is false when the
// tokens cannot be resolved: no day digits, unrecognized month, malformed or
// out-of-range time, or an invalid calendar date. A missing time token
// defaults to 00:00. No timezone is attached.
func ResolveDateTime(dateTok, timeTok string, year int) (time.Time, bool) {
	dateTok = strings.TrimSpace(reOrdinals.ReplaceAllString(strings.ToUpper(dateTok), ""))

	dayStr := reDayDigits.FindString(dateTok)
	if dayStr == "" {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}

	var month time.Month
	found := false
	for _, mc := range monthCodes {
		if strings.Contains(dateTok, mc.code) {
			month = mc.month
			found = true
			break
		}
	}
	if !found {
		return time.Time{}, false
	}

	hour, minute := 0, 0
	if timeTok != "" {
		timeTok = strings.TrimSpace(strings.ReplaceAll(timeTok, "@", ""))
		switch {
		case strings.Contains(timeTok, ":"):
			parts := strings.Split(timeTok, ":")
			if len(parts) != 2 {
				return time.Time{}, false
			}
			if hour, err = strconv.Atoi(parts[0]); err != nil {
				return time.Time{}, false
			}
			if minute, err = strconv.Atoi(parts[1]); err != nil {
				return time.Time{}, false
			}
		case reDigitsOnly.MatchString(timeTok):
			// bare 4-digit block, e.g. "0700"
			hour, _ = strconv.Atoi(timeTok[:2])
			minute, _ = strconv.Atoi(timeTok[2:])
		default:
			return time.Time{}, false
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return time.Time{}, false
		}
	}

	ts := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes impossible dates (Feb 31 -> Mar 3); reject them.
	if ts.Year() != year || ts.Month() != month || ts.Day() != day {
		return time.Time{}, false
	}
	return ts, true
}
