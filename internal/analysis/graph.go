package analysis

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/nlc-digital/landcom/internal/cases"
	"github.com/nlc-digital/landcom/pkg/formatting"
)

// State bag keys for the analysis graph.
const (
	KeyCase     = "case"
	KeyDocument = "document"
	KeyResult   = "result"
)

// Execute runs the analysis graph for one case document: the review node
// sends the composed prompt to the agent and parses the typed result, the
// reconcile node normalizes it against the document's declared category.
func Execute(ctx context.Context, rt *Runtime, c *cases.Case, doc *cases.Document) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyCase, c)
	initialState = initialState.Set(KeyDocument, doc)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("landcom-analyze")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("review", ReviewNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("reconcile", ReconcileNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("review", "reconcile", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("review"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("reconcile"); err != nil {
		return nil, err
	}

	return graph, nil
}

// ReviewNode returns a state node that composes the analyze prompt, sends it
// to the agent, and stores the parsed raw result in the state bag.
func ReviewNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		c, doc, err := extractSubject(s)
		if err != nil {
			return s, fmt.Errorf("review: %w", err)
		}

		prompt, err := composePrompt(ctx, rt.Prompts, c, doc)
		if err != nil {
			return s, fmt.Errorf("review: %w", err)
		}

		a, err := agent.New(&rt.Agent)
		if err != nil {
			return s, fmt.Errorf("review: create agent: %w", err)
		}

		resp, err := a.Chat(ctx, prompt)
		if err != nil {
			return s, fmt.Errorf("review: chat call: %w", err)
		}

		result, err := formatting.Parse[Result](resp.Text())
		if err != nil {
			return s, fmt.Errorf("review: parse response: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "review node complete",
			"document", doc.ID,
			"parcels", len(result.ExtractedParcels),
			"verification", result.VerificationStatus,
		)

		return s.Set(KeyResult, result), nil
	})
}

// ReconcileNode returns a state node that normalizes the raw result:
// defaults filled, malformed parcels dropped, the suggested category
// validated against the closed set with the document's declared category as
// fallback.
func ReconcileNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		_, doc, err := extractSubject(s)
		if err != nil {
			return s, fmt.Errorf("reconcile: %w", err)
		}

		val, ok := s.Get(KeyResult)
		if !ok {
			return s, fmt.Errorf("reconcile: missing %s in state", KeyResult)
		}

		result, ok := val.(Result)
		if !ok {
			return s, fmt.Errorf("reconcile: %s is not Result", KeyResult)
		}

		result.Normalize(doc.Category)

		return s.Set(KeyResult, result), nil
	})
}

func extractSubject(s state.State) (*cases.Case, *cases.Document, error) {
	caseVal, ok := s.Get(KeyCase)
	if !ok {
		return nil, nil, fmt.Errorf("missing %s in state", KeyCase)
	}

	c, ok := caseVal.(*cases.Case)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not *cases.Case", KeyCase)
	}

	docVal, ok := s.Get(KeyDocument)
	if !ok {
		return nil, nil, fmt.Errorf("missing %s in state", KeyDocument)
	}

	doc, ok := docVal.(*cases.Document)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not *cases.Document", KeyDocument)
	}

	return c, doc, nil
}

func extractResult(s state.State) (*Result, error) {
	val, ok := s.Get(KeyResult)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResult)
	}

	result, ok := val.(Result)
	if !ok {
		return nil, fmt.Errorf("%s is not Result", KeyResult)
	}

	return &result, nil
}
