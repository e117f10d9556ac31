package workflow

import (
	"slices"

	"github.com/nlc-digital/landcom/internal/cases"
)

// permittedRoles lists the roles conventionally associated with each action.
// Authorization is decided from this table alone; it never depends on the
// case's current status.
var permittedRoles = map[Action][]cases.Role{
	ActionSubmit:            {cases.RoleAcquiringBody},
	ActionScrutinize:        {cases.RoleChairman, cases.RoleDirectorValuation},
	ActionDefer:             {cases.RoleChairman, cases.RoleDirectorValuation},
	ActionRecommend:         {cases.RoleChairman, cases.RoleDirectorValuation},
	ActionApprove:           {cases.RoleCommittee},
	ActionReject:            {cases.RoleCommittee},
	ActionPublishGazette:    {cases.RoleChairman, cases.RoleGovtPrinter},
	ActionCommissionSurvey:  {cases.RoleDirectorValuation, cases.RoleValuationTeam},
	ActionConductInquiry:    {cases.RoleDirectorValuation, cases.RoleValuationTeam},
	ActionFinalizeValuation: {cases.RoleDirectorValuation, cases.RoleValuationTeam},
	ActionRequestFunds:      {cases.RoleDirectorValuation, cases.RoleValuationTeam},
	ActionDepositFunds:      {cases.RoleAcquiringBody},
	ActionIssueAwards:       {cases.RoleFinance},
	ActionProcessPayment:    {cases.RoleFinance},
	ActionCompletePayment:   {cases.RoleFinance},
	ActionRegisterTitle:     {cases.RoleLandRegistrar},
}

// PermittedRoles returns the roles allowed to perform the action.
func PermittedRoles(a Action) []cases.Role {
	return slices.Clone(permittedRoles[a])
}

// IsPermitted reports whether the role may perform the action from the given
// status: the role must be in the action's permitted set and the status must
// satisfy the action's precondition.
func IsPermitted(role cases.Role, a Action, status cases.Status) bool {
	return Authorize(role, a, status) == nil
}

// Authorize checks role permission and status precondition independently,
// in that order. The two failures return distinct errors.
func Authorize(role cases.Role, a Action, status cases.Status) error {
	allowed, ok := permittedRoles[a]
	if !ok {
		return ErrUnknownAction
	}

	if !slices.Contains(allowed, role) {
		return ErrNotAllowed
	}

	if !slices.Contains(preconditions[a], status) {
		return ErrWrongStage
	}

	return nil
}
