// Package notices generates official notice text for acquisition cases:
// gazette notices of intention to acquire, and contextual location insights.
// Output is opaque formatted text; the core stores and forwards it without
// parsing.
package notices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/internal/prompts"
)

// Notice is an opaque generated notice body.
type Notice struct {
	Content string `json:"content"`
}

// Link is a reference to an external resource supporting an insight.
type Link struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Insights is an opaque location overview with supporting reference links.
type Insights struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// System defines the public contract for notice generation.
type System interface {
	Handler() *Handler

	Gazette(ctx context.Context, caseID uuid.UUID) (*Notice, error)
	Insights(ctx context.Context, caseID uuid.UUID, location string) (*Insights, error)
}

type svc struct {
	agent   gaconfig.AgentConfig
	cases   cases.System
	prompts prompts.System
	logger  *slog.Logger
}

// New creates a notice generation system.
func New(
	agentCfg gaconfig.AgentConfig,
	cs cases.System,
	ps prompts.System,
	logger *slog.Logger,
) System {
	return &svc{
		agent:   agentCfg,
		cases:   cs,
		prompts: ps,
		logger:  logger.With("system", "notices"),
	}
}

func (s *svc) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// parcelSchedule is the per-parcel payload embedded in the gazette prompt.
type parcelSchedule struct {
	ParcelNumber string `json:"parcel_number"`
	Area         string `json:"area"`
	Owner        string `json:"owner"`
}

func (s *svc) Gazette(ctx context.Context, caseID uuid.UUID) (*Notice, error) {
	c, err := s.cases.Find(ctx, caseID)
	if err != nil {
		return nil, err
	}

	schedule := make([]parcelSchedule, 0, len(c.Parcels))
	for _, p := range c.Parcels {
		schedule = append(schedule, parcelSchedule{
			ParcelNumber: p.ParcelNumber,
			Area:         p.Size,
			Owner:        p.Owner,
		})
	}

	payload, err := json.MarshalIndent(map[string]any{
		"project":        c.Title,
		"purpose":        c.Description,
		"acquiring_body": c.AcquiringBody,
		"parcels":        schedule,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize gazette payload: %w", err)
	}

	content, err := s.generate(ctx, prompts.StageGazette, "Case to gazette:\n\n"+string(payload))
	if err != nil {
		return nil, err
	}

	s.logger.Info("gazette notice generated", "case", caseID, "parcels", len(schedule))
	return &Notice{Content: content}, nil
}

func (s *svc) Insights(ctx context.Context, caseID uuid.UUID, location string) (*Insights, error) {
	if location == "" {
		return nil, ErrLocationRequired
	}

	c, err := s.cases.Find(ctx, caseID)
	if err != nil {
		return nil, err
	}

	request := fmt.Sprintf("Project: %s\nLocation: %s", c.Title, location)

	text, err := s.generate(ctx, prompts.StageInsights, request)
	if err != nil {
		return nil, err
	}

	return &Insights{
		Text: text,
		Links: []Link{
			{
				Title: c.Title + " on Google Maps",
				URI:   "https://maps.google.com/?q=" + url.QueryEscape(location),
			},
			{
				Title: "Search " + c.Title,
				URI:   "https://google.com/search?q=" + url.QueryEscape(c.Title),
			},
		},
	}, nil
}

func (s *svc) generate(ctx context.Context, stage prompts.Stage, request string) (string, error) {
	instructions, err := s.prompts.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := s.prompts.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\n")
	sb.WriteString(request)

	a, err := agent.New(&s.agent)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrGenerationFailed, err)
	}

	resp, err := a.Chat(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: chat call: %w", ErrGenerationFailed, err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", ErrGenerationFailed
	}

	return content, nil
}
