package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/internal/prompts"
)

// documentContext is the payload appended to the analyze prompt so the model
// reviews the right artifact.
type documentContext struct {
	CaseTitle     string `json:"case_title"`
	AcquiringBody string `json:"acquiring_body"`
	Filename      string `json:"filename"`
	Category      string `json:"category"`
	PageCount     *int   `json:"page_count,omitempty"`
}

// composePrompt builds the analyze prompt by combining tunable instructions,
// the immutable output specification, and the document context.
func composePrompt(
	ctx context.Context,
	ps prompts.System,
	c *cases.Case,
	doc *cases.Document,
) (string, error) {
	instructions, err := ps.Instructions(ctx, prompts.StageAnalyze)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", prompts.StageAnalyze, err)
	}

	spec, err := ps.Spec(ctx, prompts.StageAnalyze)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", prompts.StageAnalyze, err)
	}

	payload, err := json.MarshalIndent(documentContext{
		CaseTitle:     c.Title,
		AcquiringBody: c.AcquiringBody,
		Filename:      doc.Filename,
		Category:      string(doc.Category),
		PageCount:     doc.PageCount,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize document context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nDocument under review:\n\n")
	sb.Write(payload)

	return sb.String(), nil
}
