package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(rows int) Dataset {
	data := Dataset{Title: "Timetable", Subtitle: "Plan 2025-1", Headers: []string{"Day", "Block", "Room", "Teacher"}}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, []string{"MONDAY", fmt.Sprintf("08:00-10:00 #%d", i), "A-101", "Ana, María"})
	}
	return data
}

func TestCSVExporterQuotesCells(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(1))
	require.NoError(t, err)
	assert.Equal(t, "Day,Block,Room,Teacher\nMONDAY,08:00-10:00 #0,A-101,\"Ana, María\"\n", string(out))
}

func TestExportersRejectMalformedDatasets(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	bad := sampleDataset(1)
	bad.Rows[0] = bad.Rows[0][:2]
	_, err = NewPDFExporter().Render(bad)
	assert.ErrorContains(t, err, "row 0")
}

func TestPDFExporterPaginates(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(80))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
