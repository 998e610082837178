package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CourseSummary is one catalog row of a CSV extract: course identity
// plus counts of its nested records.
type CourseSummary struct {
	ID        string
	Title     string
	Professor string
	Pathway   string
	Topic     string
	Sessions  int
	Media     int
}

var csvHeaders = []string{"id", "title", "professor", "pathway", "topic", "sessions", "media"}

// CSVExporter renders course summaries into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes, one row per course in stream
// order, preceded by the header row.
func (e *CSVExporter) Render(summaries []CourseSummary) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, summary := range summaries {
		record := []string{
			summary.ID,
			summary.Title,
			summary.Professor,
			summary.Pathway,
			summary.Topic,
			strconv.Itoa(summary.Sessions),
			strconv.Itoa(summary.Media),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row for course %s: %w", summary.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
