package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("vessel \t arrived\n\n at   berth")
	assert.Equal(t, "vessel arrived berth", got)
}

func TestNormalizeStripsSeparatorTokens(t *testing.T) {
	assert.Equal(t, "Loading commenced 0700", Normalize("Loading commenced at 0700"))
	// "@" glued to a word is split off; "@" after a space is left alone
	assert.Equal(t, "5 NOV 0700", Normalize("5 NOV@0700"))
}

func TestNormalizeCanonicalizesMonths(t *testing.T) {
	assert.Equal(t, "5 NOV", Normalize("5 NOVEMBER"))
	assert.Equal(t, "5 NOV", Normalize("5 november"))
	assert.Equal(t, "12 DEC", Normalize("12 December"))
	assert.Equal(t, "1 MAY", Normalize("1 may"))
}

func TestNormalizeFixesOCRMisspellings(t *testing.T) {
	// misspelling fix runs before canonicalization, so both collapse to NOV
	assert.Equal(t, "5 NOV", Normalize("5 NOVMBER"))
	assert.Equal(t, "5 NOV", Normalize("5 Novemebr"))
}

func TestNormalizeDropsStandaloneOrdinals(t *testing.T) {
	assert.Equal(t, "1 NOV", Normalize("1 st NOVEMBER"))
	// ordinal glued to the day is not a standalone token; resolver handles it
	assert.Equal(t, "5th NOV", Normalize("5th NOV"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"6. Loading commenced: 5 NOVEMBER @0700",
		"vessel   arrived at anchorage 12 nov 1430",
		"2. Vessel Name: MV STAR LEO\n3. Port: POL SINGAPORE",
		"1 st NOVMBER $ 0900",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
