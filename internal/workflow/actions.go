// Package workflow implements the case status machine: the closed action set,
// its precondition and authorization tables, and the pure transition engine
// that applies actions to case snapshots. Persistence is delegated to the
// cases package.
package workflow

import (
	"slices"

	"github.com/nlc-digital/landcom/internal/cases"
)

// Action is a workflow transition identifier. The set is closed; the
// precondition, authorization, and result tables below are total over it.
type Action string

// Workflow actions in nominal forward order.
const (
	ActionSubmit            Action = "SUBMIT"
	ActionScrutinize        Action = "SCRUTINIZE"
	ActionDefer             Action = "DEFER"
	ActionRecommend         Action = "RECOMMEND"
	ActionApprove           Action = "APPROVE"
	ActionReject            Action = "REJECT"
	ActionPublishGazette    Action = "PUBLISH_GAZETTE"
	ActionCommissionSurvey  Action = "COMMISSION_SURVEY"
	ActionConductInquiry    Action = "CONDUCT_INQUIRY"
	ActionFinalizeValuation Action = "FINALIZE_VALUATION"
	ActionRequestFunds      Action = "REQUEST_FUNDS"
	ActionDepositFunds      Action = "DEPOSIT_FUNDS"
	ActionIssueAwards       Action = "ISSUE_AWARDS"
	ActionProcessPayment    Action = "PROCESS_PAYMENT"
	ActionCompletePayment   Action = "COMPLETE_PAYMENT"
	ActionRegisterTitle     Action = "REGISTER_TITLE"
)

var actions = []Action{
	ActionSubmit,
	ActionScrutinize,
	ActionDefer,
	ActionRecommend,
	ActionApprove,
	ActionReject,
	ActionPublishGazette,
	ActionCommissionSurvey,
	ActionConductInquiry,
	ActionFinalizeValuation,
	ActionRequestFunds,
	ActionDepositFunds,
	ActionIssueAwards,
	ActionProcessPayment,
	ActionCompletePayment,
	ActionRegisterTitle,
}

// Actions returns the closed action set in nominal forward order.
func Actions() []Action {
	return actions
}

// ParseAction validates a string as a known workflow action.
// Returns ErrUnknownAction if the value is not recognized.
func ParseAction(s string) (Action, error) {
	v := Action(s)
	if !slices.Contains(actions, v) {
		return "", ErrUnknownAction
	}
	return v, nil
}

// preconditions lists the statuses from which each action may be applied.
// SUBMIT also covers re-submission after a deferral.
var preconditions = map[Action][]cases.Status{
	ActionSubmit:            {cases.StatusDraft, cases.StatusReturnedForCorrection},
	ActionScrutinize:        {cases.StatusSubmitted},
	ActionDefer:             {cases.StatusUnderScrutiny},
	ActionRecommend:         {cases.StatusUnderScrutiny},
	ActionApprove:           {cases.StatusPendingCommittee},
	ActionReject:            {cases.StatusPendingCommittee},
	ActionPublishGazette:    {cases.StatusApproved},
	ActionCommissionSurvey:  {cases.StatusGazetteIntention},
	ActionConductInquiry:    {cases.StatusInquiryNotice},
	ActionFinalizeValuation: {cases.StatusInquiryConducted},
	ActionRequestFunds:      {cases.StatusCompensationSchedule},
	ActionDepositFunds:      {cases.StatusFundsRequested},
	ActionIssueAwards:       {cases.StatusFundsDeposited},
	ActionProcessPayment:    {cases.StatusAwardsIssued},
	ActionCompletePayment:   {cases.StatusPaymentProcessing},
	ActionRegisterTitle:     {cases.StatusVesting},
}

var nextStatus = map[Action]cases.Status{
	ActionSubmit:            cases.StatusSubmitted,
	ActionScrutinize:        cases.StatusUnderScrutiny,
	ActionDefer:             cases.StatusReturnedForCorrection,
	ActionRecommend:         cases.StatusPendingCommittee,
	ActionApprove:           cases.StatusApproved,
	ActionReject:            cases.StatusRejected,
	ActionPublishGazette:    cases.StatusGazetteIntention,
	ActionCommissionSurvey:  cases.StatusInquiryNotice,
	ActionConductInquiry:    cases.StatusInquiryConducted,
	ActionFinalizeValuation: cases.StatusCompensationSchedule,
	ActionRequestFunds:      cases.StatusFundsRequested,
	ActionDepositFunds:      cases.StatusFundsDeposited,
	ActionIssueAwards:       cases.StatusAwardsIssued,
	ActionProcessPayment:    cases.StatusPaymentProcessing,
	ActionCompletePayment:   cases.StatusVesting,
	ActionRegisterTitle:     cases.StatusTitleRegistered,
}

type stageMapping struct {
	Stage       string
	Description string
}

// stageMappings carries the milestone label and fixed description appended as
// a StageEvent on a successful transition. Actions absent from this map
// (CONDUCT_INQUIRY, REGISTER_TITLE) append an audit LogEntry only.
var stageMappings = map[Action]stageMapping{
	ActionSubmit:            {Stage: "Submission", Description: "Request submitted for review"},
	ActionScrutinize:        {Stage: "Scrutiny", Description: "Director/committee started scrutiny"},
	ActionDefer:             {Stage: "Corrections", Description: "Returned to applicant for corrections"},
	ActionRecommend:         {Stage: "Committee", Description: "Forwarded to committee for decision"},
	ActionApprove:           {Stage: "Approval", Description: "Committee approved the request"},
	ActionReject:            {Stage: "Rejection", Description: "Committee rejected the request"},
	ActionPublishGazette:    {Stage: "Gazette", Description: "Gazette notice published"},
	ActionCommissionSurvey:  {Stage: "Inquiry", Description: "Survey commissioned"},
	ActionFinalizeValuation: {Stage: "Valuation", Description: "Compensation schedule finalized"},
	ActionRequestFunds:      {Stage: "Funds", Description: "Funds requested"},
	ActionDepositFunds:      {Stage: "Funds", Description: "Funds deposited"},
	ActionIssueAwards:       {Stage: "Conclusion", Description: "Awards issued"},
	ActionProcessPayment:    {Stage: "Conclusion", Description: "Payment processing started"},
	ActionCompletePayment:   {Stage: "Conclusion", Description: "Payment processing completed"},
}

// Preconditions returns the statuses from which the action may be applied.
// Returns nil for an unknown action. Pure lookup, independent of role;
// clients use it to grey out unavailable actions.
func Preconditions(a Action) []cases.Status {
	return slices.Clone(preconditions[a])
}

// NextStatus returns the status the action transitions into.
func NextStatus(a Action) (cases.Status, bool) {
	s, ok := nextStatus[a]
	return s, ok
}

// StageMapping returns the stage label and fixed description appended as a
// StageEvent by the action, if it has one.
func StageMapping(a Action) (stage, description string, ok bool) {
	m, found := stageMappings[a]
	return m.Stage, m.Description, found
}
