package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	payload, err := exporter.Render([]CourseSummary{
		{ID: "c-1", Title: "Compilers, Part I", Professor: "Grace Hopper", Pathway: "Engineering", Topic: "Compilers", Sessions: 2, Media: 3},
		{ID: "c-2", Title: "Compilers II", Professor: "Grace Hopper", Pathway: "Engineering", Topic: "Compilers"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,professor,pathway,topic,sessions,media", lines[0])
	assert.Equal(t, `c-1,"Compilers, Part I",Grace Hopper,Engineering,Compilers,2,3`, lines[1])
	assert.Equal(t, "c-2,Compilers II,Grace Hopper,Engineering,Compilers,0,0", lines[2])
}

func TestCSVExporterEmptyResultKeepsHeader(t *testing.T) {
	exporter := NewCSVExporter()
	payload, err := exporter.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "id,title,professor,pathway,topic,sessions,media", strings.TrimSpace(string(payload)))
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	payload, err := exporter.Render(Syllabus{
		Title:       "Compiler Construction",
		Description: "A hands-on tour of lexing, parsing and code generation.",
		Professor:   "Grace Hopper",
		Pathway:     "Engineering",
		Topic:       "Compilers",
		Sessions: []SyllabusSession{
			{
				Number: 1,
				Title:  "Lexing",
				Media: []SyllabusMedia{
					{Type: "Video", URL: "https://cdn.example.com/lexing.mp4"},
				},
			},
			{Number: 2, Title: "Parsing"},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestPDFExporterRequiresTitle(t *testing.T) {
	exporter := NewPDFExporter()
	_, err := exporter.Render(Syllabus{})
	assert.Error(t, err)
}
