package extractor

import (
	"regexp"
	"strings"
)

type rewriteRule struct {
	re   *regexp.Regexp
	repl string
}

// rewriteRules is applied in order; later rules assume earlier ones already
// ran (month canonicalization expects OCR misspellings fixed first).
var rewriteRules = []rewriteRule{
	// collapse whitespace runs
	{regexp.MustCompile(`\s+`), " "},
	// loose time-indicator separators ("@", "at", "$")
	{regexp.MustCompile(`(?i)\s*\b(?:@|at|\$)\s*`), " "},
	// known OCR misspellings, before month canonicalization
	{regexp.MustCompile(`(?i)\b(?:NOVMBER|Novemebr)\b`), "NOVEMBER"},
	// canonicalize month names to their 3-letter form
	{regexp.MustCompile(`(?i)\b(?:JANUARY|JAN)\b`), "JAN"},
	{regexp.MustCompile(`(?i)\b(?:FEBRUARY|FEB)\b`), "FEB"},
	{regexp.MustCompile(`(?i)\b(?:MARCH|MAR)\b`), "MAR"},
	{regexp.MustCompile(`(?i)\b(?:APRIL|APR)\b`), "APR"},
	{regexp.MustCompile(`(?i)\b(?:MAY)\b`), "MAY"},
	{regexp.MustCompile(`(?i)\b(?:JUNE|JUN)\b`), "JUN"},
	{regexp.MustCompile(`(?i)\b(?:JULY|JUL)\b`), "JUL"},
	{regexp.MustCompile(`(?i)\b(?:AUGUST|AUG)\b`), "AUG"},
	{regexp.MustCompile(`(?i)\b(?:SEPTEMBER|SEP)\b`), "SEP"},
	{regexp.MustCompile(`(?i)\b(?:OCTOBER|OCT)\b`), "OCT"},
	{regexp.MustCompile(`(?i)\b(?:NOVEMBER|NOV)\b`), "NOV"},
	{regexp.MustCompile(`(?i)\b(?:DECEMBER|DEC)\b`), "DEC"},
	// standalone ordinal suffix tokens ("1 st NOV" -> "1 NOV")
	{regexp.MustCompile(`(?i)\s*\b(?:st|nd|rd|th)\b`), " "},
}

var reSpaceRuns = regexp.MustCompile(` {2,}`)

// Normalize cleans OCR text: whitespace, loose separators, month spellings,
// ordinal suffixes. Pure and idempotent; separator stripping can eat a
// legitimate standalone "at" inside prose, which is accepted.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rewriteRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	// rules that consume surrounding space may leave double spaces behind
	s = reSpaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
