package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harbordesk/sof-extractor/constants"
)

const sampleSoF = `STATEMENT OF FACTS 2023
2. Vessel Name: MV STAR LEO
3. Port: POL SINGAPORE
6. Loading commenced: 5 NOV @0700
7. Loading completed: 6 NOV @1800
12. Vessel sailed: 7 NOV @0630
VESSEL ARRIVED AND ANCHORED 3 NOV 1430 OFF PORT LIMITS`

func TestExtractEmptyInput(t *testing.T) {
	res := New(nil).Extract("")
	assert.Empty(t, res.Metadata)
	assert.Empty(t, res.Events)
	assert.Zero(t, res.Summary.TotalEvents)
}

func TestExtractFullDocument(t *testing.T) {
	res := New(nil).Extract(sampleSoF)

	assert.Equal(t, "MV STAR LEO", res.Metadata["vessel"])
	assert.Equal(t, "SINGAPORE", res.Metadata["voyage_from"])

	require.NotEmpty(t, res.Events)
	// chronological: arrival (context scan) precedes the loading fields
	assert.Equal(t, constants.VesselArrived, res.Events[0].Event)
	assert.Equal(t, "2023-11-03T14:30:00", res.Events[0].Start)

	var types []constants.EventType
	for _, ev := range res.Events {
		assert.NotEqual(t, constants.UnknownEvent, ev.Event)
		assert.Equal(t, ev.Start, ev.End)
		types = append(types, ev.Event)
	}
	assert.Contains(t, types, constants.LoadingCommenced)
	assert.Contains(t, types, constants.LoadingCompleted)
	assert.Contains(t, types, constants.VesselSailed)

	assert.Equal(t, len(res.Events), res.Summary.TotalEvents)
	assert.Len(t, res.Summary.EventTypes, len(uniqueTypes(types)))
	assert.NotEmpty(t, res.Summary.ExtractionDate)
}

func TestExtractDeduplicatesAcrossPasses(t *testing.T) {
	// the berthing shows up both as a numbered field and in free text with
	// the same timestamp; exactly one record must survive
	text := `SOF 2023
4. Berth: 8 NOV @0600
vessel proceeded and made fast to berth 8 NOV 0600 all ropes secured`
	res := New(nil).Extract(text)

	var berthed int
	for _, ev := range res.Events {
		if ev.Event == constants.Berthed && ev.Start == "2023-11-08T06:00:00" {
			berthed++
		}
	}
	assert.Equal(t, 1, berthed)
}

func TestExtractEventsSortedWithEmptyStartsLast(t *testing.T) {
	text := `SOF 2023
6. Loading commenced: 31 FEB @0700
7. Loading completed: 6 NOV @1800`
	res := New(nil).Extract(text)

	require.Len(t, res.Events, 2)
	assert.Equal(t, constants.LoadingCompleted, res.Events[0].Event)
	assert.Equal(t, constants.LoadingCommenced, res.Events[1].Event)
	assert.Empty(t, res.Events[1].Start)
}

func TestExtractRawTextIsNormalized(t *testing.T) {
	res := New(nil).Extract("6.  Loading   commenced: 5 NOVEMBER @0700")
	assert.Equal(t, Normalize(res.RawText), res.RawText)
}

func uniqueTypes(types []constants.EventType) map[constants.EventType]struct{} {
	set := make(map[constants.EventType]struct{})
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}
