package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVRenderPrependsBOM(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Materia", "Nota"},
		Rows: []map[string]string{
			{"Materia": "Algoritmos", "Nota": "8.50"},
			{"Materia": "Física", "Nota": "6.00"},
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	body := string(out[3:])
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Materia,Nota", strings.TrimSpace(lines[0]))
	require.Contains(t, body, "Física")
}

func TestCSVRenderMissingColumnsAreEmpty(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Materia", "Nota", "Observaciones"},
		Rows:    []map[string]string{{"Materia": "Algoritmos"}},
	})
	require.NoError(t, err)
	require.Contains(t, string(out), "Algoritmos,,")
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	exporter := NewPDFExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Materia", "Nota"},
		Rows:    []map[string]string{{"Materia": "Algoritmos", "Nota": "8.50"}},
	}, "Boletín de Suárez, Ana")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
