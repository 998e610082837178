package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Syllabus describes a single course for PDF rendering.
type Syllabus struct {
	Title       string
	Description string
	Professor   string
	Pathway     string
	Topic       string
	Sessions    []SyllabusSession
}

// SyllabusSession is one ordered entry of the syllabus.
type SyllabusSession struct {
	Number      int
	Title       string
	Description string
	Media       []SyllabusMedia
}

// SyllabusMedia is a single media reference attached to a session.
type SyllabusMedia struct {
	Type string
	URL  string
}

// PDFExporter renders a course syllabus into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document for the syllabus.
func (e *PDFExporter) Render(s Syllabus) ([]byte, error) {
	if s.Title == "" {
		return nil, fmt.Errorf("syllabus requires a course title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, s.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Professor: %s", s.Professor), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Pathway: %s    Topic: %s", s.Pathway, s.Topic), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	if s.Description != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, s.Description, "", "L", false)
		pdf.Ln(3)
	}

	for _, session := range s.Sessions {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Session %d: %s", session.Number, session.Title), "B", 1, "L", false, 0, "")

		if session.Description != "" {
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, session.Description, "", "L", false)
		}

		pdf.SetFont("Arial", "", 8)
		for _, media := range session.Media {
			pdf.CellFormat(0, 5, fmt.Sprintf("  [%s] %s", media.Type, media.URL), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render syllabus pdf: %w", err)
	}
	return buf.Bytes(), nil
}
