package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/entity"
)

// contextRadius is the window taken on each side of a free-text date/time
// match when inferring which event the timestamp belongs to.
const contextRadius = 50

type classificationRule struct {
	re    *regexp.Regexp
	event constants.EventType
}

// labelRules classifies numbered-field labels. The order is part of the
// contract: the first rule whose pattern is found in the label wins.
var labelRules = []classificationRule{
	// loading
	{regexp.MustCompile(`(?i)loading\s+commenced`), constants.LoadingCommenced},
	{regexp.MustCompile(`(?i)loading\s+completed`), constants.LoadingCompleted},
	// discharging
	{regexp.MustCompile(`(?i)discharging\s+commenced`), constants.DischargingCommenced},
	{regexp.MustCompile(`(?i)discharging\s+completed`), constants.DischargingCompleted},
	// vessel movement
	{regexp.MustCompile(`(?i)vessel\s+sailed`), constants.VesselSailed},
	{regexp.MustCompile(`(?i)vessel\s+arrived`), constants.VesselArrived},
	{regexp.MustCompile(`(?i)vessel\s+anchor`), constants.VesselAnchored},
	// port operations
	{regexp.MustCompile(`(?i)\bberth\b`), constants.Berthed},
	{regexp.MustCompile(`(?i)\bquarantine\b`), constants.Quarantine},
	{regexp.MustCompile(`(?i)\bimmigration\b`), constants.Immigration},
	{regexp.MustCompile(`(?i)notice\s+of\s+readiness`), constants.NoticeOfReadiness},
	{regexp.MustCompile(`(?i)cargo\s+document`), constants.CargoDocumentOnBoard},
}

// contextRules is the simplified variant used against free context windows
// in the second pass. Same first-match-wins rule, looser patterns.
var contextRules = []classificationRule{
	{regexp.MustCompile(`(?i)vessel\s+arrive`), constants.VesselArrived},
	{regexp.MustCompile(`(?i)vessel\s+anchor`), constants.VesselAnchored},
	{regexp.MustCompile(`(?i)berth`), constants.Berthed},
	{regexp.MustCompile(`(?i)quarantine`), constants.Quarantine},
	{regexp.MustCompile(`(?i)immigration`), constants.Immigration},
	{regexp.MustCompile(`(?i)notice\s+of\s+readiness`), constants.NoticeOfReadiness},
}

var (
	// "<n>. <label> [:-]? <date> [@]? <time>?" — the structural SoF field shape.
	reNumberedField = regexp.MustCompile(`(?i)(\d+)\.\s*([A-Za-z\s]+)[:\-]?\s*(\d{1,2}(?:st|nd|rd|th)?\s*(?:JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[a-z]*)\s*@?\s*(\d{1,2}:\d{2}|\d{3,4})?`)
	// free-text "<day> <MON> <time>" pairs anywhere in the document
	reDateTimePair = regexp.MustCompile(`(?i)(\d{1,2}(?:st|nd|rd|th)?)\s*(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\s*(@?\s*(\d{1,2}:\d{2}|\d{3,4}))`)
)

// DetectEvents scans normalized text with two complementary passes and
// returns the raw, unfiltered records. Pass A walks the numbered SoF fields
// and keeps every match, classified or not (unclassified labels become
// UNKNOWN EVENT for the finalizer to drop). Pass B anchors on free-text
// date/time pairs and keeps only matches whose surrounding context
// classifies. Malformed tokens never fail the scan; they yield records with
// empty timestamps (Pass A) or are skipped (Pass B).
func DetectEvents(text string, year int) []entity.EventRecord {
	records := make([]entity.EventRecord, 0)

	// Pass A — numbered-field scan
	for _, m := range reNumberedField.FindAllStringSubmatch(text, -1) {
		num, _ := strconv.Atoi(m[1])
		label := strings.ToLower(strings.TrimSpace(m[2]))
		dateTok := strings.TrimSpace(m[3])
		timeTok := strings.TrimSpace(m[4])

		event := constants.UnknownEvent
		for _, r := range labelRules {
			if r.re.MatchString(label) {
				event = r.event
				break
			}
		}

		start := ""
		if dateTok != "" && timeTok != "" {
			if ts, ok := ResolveDateTime(dateTok, timeTok, year); ok {
				start = ts.Format(entity.TimestampLayout)
			}
		}

		line := num
		records = append(records, entity.EventRecord{
			Event:      event,
			Start:      start,
			End:        start,
			Remarks:    fmt.Sprintf("%d. %s", num, label),
			LineNumber: &line,
		})
	}

	// Pass B — context-anchored scan
	for _, idx := range reDateTimePair.FindAllStringSubmatchIndex(text, -1) {
		dateTok := text[idx[2]:idx[3]] + " " + text[idx[4]:idx[5]]
		timeTok := ""
		if idx[8] >= 0 {
			timeTok = text[idx[8]:idx[9]]
		}
		ts, ok := ResolveDateTime(dateTok, timeTok, year)
		if !ok {
			continue
		}

		lo := idx[0] - contextRadius
		if lo < 0 {
			lo = 0
		}
		hi := idx[1] + contextRadius
		if hi > len(text) {
			hi = len(text)
		}
		context := text[lo:hi]

		event := constants.UnknownEvent
		for _, r := range contextRules {
			if r.re.MatchString(context) {
				event = r.event
				break
			}
		}
		if event == constants.UnknownEvent {
			continue
		}

		start := ts.Format(entity.TimestampLayout)
		records = append(records, entity.EventRecord{
			Event:   event,
			Start:   start,
			End:     start,
			Remarks: strings.TrimSpace(context),
		})
	}

	return records
}
