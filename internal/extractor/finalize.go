package extractor

import (
	"sort"
	"time"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/entity"
)

// unresolvedSortKey places records without a usable timestamp after every
// dated record.
var unresolvedSortKey = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Finalize produces the externally visible event list: records outside the
// canonical label set (the UNKNOWN EVENT sentinel included) are dropped,
// duplicates collapse on (event, start) keeping the first record in detection
// order, and the rest is stably sorted ascending by start with empty
// timestamps last.
func Finalize(records []entity.EventRecord) []entity.EventRecord {
	kept := make([]entity.EventRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if !constants.IsCanonical(r.Event) {
			continue
		}
		key := string(r.Event) + "_" + r.Start
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return sortKey(kept[i]).Before(sortKey(kept[j]))
	})
	return kept
}

func sortKey(r entity.EventRecord) time.Time {
	if r.Start == "" {
		return unresolvedSortKey
	}
	ts, err := time.Parse(entity.TimestampLayout, r.Start)
	if err != nil {
		return unresolvedSortKey
	}
	return ts
}
