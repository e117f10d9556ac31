// Package documents handles evidentiary document attachment for acquisition
// cases: blob storage, the departmental review flow, and the required-category
// completeness check.
package documents

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
)

type flowStep struct {
	name       string
	department string
}

// flowSequence is the fixed departmental review path every attached document
// travels, in order.
var flowSequence = []flowStep{
	{name: "Acquiring Body Intake", department: "Acquiring Body"},
	{name: "Land Registrar Check", department: "Land Registrar"},
	{name: "Legal Assessment", department: "Legal Team"},
	{name: "Valuation Review", department: "Valuation Team"},
	{name: "NLCC Chairman Review", department: "NLCC Chairman"},
}

// NewFlow creates a fully populated review flow, one Pending stage per
// reviewing department.
func NewFlow(now time.Time) []cases.FlowStage {
	flow := make([]cases.FlowStage, 0, len(flowSequence))
	for _, step := range flowSequence {
		flow = append(flow, cases.FlowStage{
			ID:         uuid.New(),
			Name:       step.name,
			Department: step.department,
			Status:     cases.FlowPending,
			UpdatedAt:  now,
		})
	}
	return flow
}

// DetectFormat derives the document format from the filename extension,
// defaulting to PDF for anything unrecognized.
func DetectFormat(filename string) cases.Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return cases.FormatCSV
	case ".docx", ".doc":
		return cases.FormatDOCX
	default:
		return cases.FormatPDF
	}
}
