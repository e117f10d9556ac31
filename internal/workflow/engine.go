package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Apply performs a workflow transition on a case snapshot and returns the
// updated case. The input case is never mutated: failures return it unchanged
// alongside the error, successes return a deep copy with the new status, one
// appended LogEntry, and — when the action carries a stage mapping — one
// appended StageEvent. The engine performs no I/O; the caller persists the
// result.
func Apply(c cases.Case, a Action, actor cases.Actor, note string) (cases.Case, error) {
	next, ok := nextStatus[a]
	if !ok {
		return c, ErrUnknownAction
	}

	if err := Authorize(actor.Role, a, c.Status); err != nil {
		return c, err
	}

	now := time.Now().UTC()
	out := c.Clone()
	out.Status = next
	out.UpdatedAt = now

	if a == ActionDepositFunds {
		out.FundsDeposited = true
	}

	out.Logs = append(out.Logs, cases.LogEntry{
		ID:        uuid.New(),
		Action:    string(a),
		User:      actor.Label(),
		Role:      actor.Role,
		Timestamp: now,
		Note:      note,
	})

	if stage, description, mapped := StageMapping(a); mapped {
		out.StageEvents = append(out.StageEvents, cases.StageEvent{
			ID:          uuid.New(),
			Stage:       stage,
			Description: description,
			Timestamp:   now,
			Completed:   true,
			TriggeredBy: actor.Label(),
			Note:        note,
		})
	}

	return out, nil
}
