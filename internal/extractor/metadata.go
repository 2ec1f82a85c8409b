package extractor

import (
	"regexp"
	"strings"

	"github.com/harbordesk/sof-extractor/internal/entity"
)

// Header field patterns. Each anchors on a numbered field label and captures
// the value up to the next digit, period, or newline. RE2 has no lookahead,
// so the terminator is consumed by a non-capturing group instead; only the
// captured value is used.
var (
	reVesselNumbered = regexp.MustCompile(`(?i)2\.\s*Vessel\s*Name\s*[:\-]?\s*([A-Za-z0-9\s]+?)(?:[0-9.\n]|$)`)
	reVesselLoose    = regexp.MustCompile(`(?i)Vessel\s*Name\s*[:\-]?\s*([A-Za-z0-9\s]+?)(?:[0-9.\n]|$)`)
	rePortOfLoading  = regexp.MustCompile(`(?i)3\.\s*Port\s*[:\-]?\s*POL\s*([A-Za-z\s\-]+?)(?:[0-9.\n]|$)`)
	rePortOfDisch    = regexp.MustCompile(`(?i)6\.\s*Port\s*[:\-]?\s*POD\s*([A-Za-z\s\-]+?)(?:[0-9.\n]|$)`)
)

// ExtractMetadata pulls header fields from SoF text. Best-effort: a field
// that does not match is absent from the map, and the function never fails.
func ExtractMetadata(text string) entity.Metadata {
	md := entity.Metadata{}

	m := reVesselNumbered.FindStringSubmatch(text)
	if m == nil {
		m = reVesselLoose.FindStringSubmatch(text)
	}
	if m != nil {
		md["vessel"] = strings.TrimSpace(m[1])
	}

	if m := rePortOfLoading.FindStringSubmatch(text); m != nil {
		md["voyage_from"] = strings.TrimSpace(m[1])
	}
	if m := rePortOfDisch.FindStringSubmatch(text); m != nil {
		md["voyage_to"] = strings.TrimSpace(m[1])
	}
	return md
}
