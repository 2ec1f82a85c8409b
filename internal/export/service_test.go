package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/harbordesk/sof-extractor/constants"
	"github.com/harbordesk/sof-extractor/internal/entity"
)

func sampleResult() *entity.ExtractionResult {
	line := 7
	return &entity.ExtractionResult{
		Metadata: entity.Metadata{"vessel": "MV OCEAN", "voyage_from": "SINGAPORE"},
		Events: []entity.EventRecord{
			{
				Event:      constants.VesselArrived,
				Start:      "2025-11-05T06:00:00",
				End:        "2025-11-05T06:00:00",
				Remarks:    "vessel arrived at anchorage",
				LineNumber: nil,
			},
			{
				Event:      constants.LoadingCommenced,
				Start:      "2025-11-05T07:00:00",
				End:        "2025-11-05T07:00:00",
				Remarks:    "7. loading commenced",
				LineNumber: &line,
			},
		},
		RawText: "7. Loading Commenced: 5 NOV 0700",
		Summary: entity.Summary{
			TotalEvents:    2,
			EventTypes:     []string{"VESSEL ARRIVED", "LOADING COMMENCED"},
			ExtractionDate: "2025-11-06T12:00:00",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	name, err := svc.WriteCSV("sof_events_test", sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "sof_events_test.csv", name)

	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"event", "start", "end", "remarks", "line_number"}, rows[0])
	assert.Equal(t, []string{"VESSEL ARRIVED", "2025-11-05T06:00:00", "2025-11-05T06:00:00", "vessel arrived at anchorage", ""}, rows[1])
	assert.Equal(t, []string{"LOADING COMMENCED", "2025-11-05T07:00:00", "2025-11-05T07:00:00", "7. loading commenced", "7"}, rows[2])
}

func TestWriteJSONValidatesAgainstSchema(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	name, err := svc.WriteJSON("sof_events_test", sampleResult())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, ValidateResultJSON(data))

	var decoded entity.ExtractionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "MV OCEAN", decoded.Metadata["vessel"])
	assert.Equal(t, 2, decoded.Summary.TotalEvents)
	require.Len(t, decoded.Events, 2)
	assert.Nil(t, decoded.Events[0].LineNumber)
	require.NotNil(t, decoded.Events[1].LineNumber)
	assert.Equal(t, 7, *decoded.Events[1].LineNumber)
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	name, err := svc.WriteXLSX("sof_events_test", sampleResult())
	require.NoError(t, err)

	wb, err := excelize.OpenFile(filepath.Join(dir, name))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Events")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, []string{"Event", "Start", "End", "Remarks", "Line Number"}, rows[0])
	assert.Equal(t, "VESSEL ARRIVED", rows[1][0])
	assert.Equal(t, "LOADING COMMENCED", rows[2][0])
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	base := Basename(uuid.New())
	files, err := svc.WriteAll(base, sampleResult())
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestValidateResultJSONRejectsBadEnvelope(t *testing.T) {
	err := ValidateResultJSON([]byte(`{"metadata": {}, "events": [], "raw_text": ""}`))
	require.Error(t, err)

	err = ValidateResultJSON([]byte(`{
		"metadata": {},
		"events": [{"event": "", "start": "", "end": "", "remarks": ""}],
		"raw_text": "",
		"summary": {"total_events": 0, "event_types": [], "extraction_date": "x"}
	}`))
	require.Error(t, err) // empty event label is outside the canonical enum

	err = ValidateResultJSON([]byte(`{
		"metadata": {},
		"events": [{"event": "PILOT ON BOARD", "start": "", "end": "", "remarks": ""}],
		"raw_text": "",
		"summary": {"total_events": 1, "event_types": ["PILOT ON BOARD"], "extraction_date": "x"}
	}`))
	require.Error(t, err) // label not in the canonical enum
}

func TestWriteJSONRejectsInvalidEnvelope(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, nil)

	res := sampleResult()
	res.Events[0].Event = "PILOT ON BOARD" // not a canonical label
	_, err := svc.WriteJSON("sof_events_bad", res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")

	// nothing was written
	_, statErr := os.Stat(filepath.Join(dir, "sof_events_bad.json"))
	assert.True(t, os.IsNotExist(statErr))
}
