package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Claim is a parcel-level response by an interested party to an announced
// award. Claims move parcel state only; the case-level status machine is
// untouched.
type Claim string

// Claim actions.
const (
	ClaimAccept  Claim = "ACCEPT"
	ClaimContest Claim = "CONTEST"
)

var claims = []Claim{ClaimAccept, ClaimContest}

// ParseClaim validates a string as a known claim action.
// Returns ErrUnknownClaim if the value is not recognized.
func ParseClaim(s string) (Claim, error) {
	v := Claim(s)
	if !slices.Contains(claims, v) {
		return "", ErrUnknownClaim
	}
	return v, nil
}

var claimOutcomes = map[Claim]struct {
	status cases.ParcelStatus
	action string
}{
	ClaimAccept:  {status: cases.ParcelAccepted, action: "Award Accepted"},
	ClaimContest: {status: cases.ParcelContested, action: "Award Contested"},
}

// ApplyClaim records an interested party's response on the named parcel and
// appends an audit entry. Only interested parties may claim; a missing parcel
// is an error, never a silent no-op. No StageEvent is appended.
func ApplyClaim(c cases.Case, parcelID uuid.UUID, claim Claim, actor cases.Actor) (cases.Case, error) {
	outcome, ok := claimOutcomes[claim]
	if !ok {
		return c, ErrUnknownClaim
	}

	if actor.Role != cases.RoleInterestedParty {
		return c, ErrNotAllowed
	}

	out := c.Clone()

	parcel := out.FindParcel(parcelID)
	if parcel == nil {
		return c, cases.ErrParcelNotFound
	}

	now := time.Now().UTC()
	parcel.Status = outcome.status
	out.UpdatedAt = now

	out.Logs = append(out.Logs, cases.LogEntry{
		ID:        uuid.New(),
		Action:    outcome.action,
		User:      actor.Label(),
		Role:      actor.Role,
		Timestamp: now,
		Note:      parcel.ParcelNumber,
	})

	return out, nil
}
