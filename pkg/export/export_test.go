package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := NewDataset("Leaderboard", "rank", "code", "points")
	data.AddRow("1", "AF-1000", "80")
	data.AddRow("2", "AF-2000")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "rank,code,points\n1,AF-1000,80\n2,AF-2000,\n", string(out[len(utf8BOM):]))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := (&CSVExporter{}).Render(&Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := NewDataset("Évaluation finale", "code", "overall_rating", "most_impactful_thing")
	data.AddRow("AF-1000", "5", "Les échanges entre chercheurs et industriels")

	exporter := NewPDFExporter()
	exporter.now = func() time.Time { return time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC) }
	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
