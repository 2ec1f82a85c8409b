package constants

// EventType is a canonical Statement of Facts event label.
type EventType string

const (
	LoadingCommenced     EventType = "LOADING COMMENCED"
	LoadingCompleted     EventType = "LOADING COMPLETED"
	DischargingCommenced EventType = "DISCHARGING COMMENCED"
	DischargingCompleted EventType = "DISCHARGING COMPLETED"
	VesselSailed         EventType = "VESSEL SAILED"
	VesselArrived        EventType = "VESSEL ARRIVED"
	VesselAnchored       EventType = "VESSEL ANCHORED"
	Berthed              EventType = "BERTHED"
	Quarantine           EventType = "QUARANTINE"
	Immigration          EventType = "IMMIGRATION"
	NoticeOfReadiness    EventType = "NOTICE OF READINESS"
	CargoDocumentOnBoard EventType = "CARGO DOCUMENT ON BOARD"

	// UnknownEvent marks a detected record that could not be classified.
	// It only exists during detection and is filtered before output.
	UnknownEvent EventType = "UNKNOWN EVENT"
)

var allEventTypes = []EventType{
	LoadingCommenced,
	LoadingCompleted,
	DischargingCommenced,
	DischargingCompleted,
	VesselSailed,
	VesselArrived,
	VesselAnchored,
	Berthed,
	Quarantine,
	Immigration,
	NoticeOfReadiness,
	CargoDocumentOnBoard,
}

func AsStringSlice() []string {
	result := make([]string, len(allEventTypes))
	for i, et := range allEventTypes {
		result[i] = string(et)
	}
	return result
}

// IsCanonical reports whether et is one of the closed set of output labels.
func IsCanonical(et EventType) bool {
	for _, known := range allEventTypes {
		if et == known {
			return true
		}
	}
	return false
}
