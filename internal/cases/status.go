package cases

import (
	"encoding/json"
	"slices"
)

// Status is the case lifecycle state. The set is closed; transitions between
// values are governed exclusively by the workflow transition table.
type Status string

// Case statuses in nominal forward order.
const (
	StatusDraft                 Status = "Draft"
	StatusSubmitted             Status = "Submitted"
	StatusUnderScrutiny         Status = "Under Scrutiny"
	StatusReturnedForCorrection Status = "Returned for Correction"
	StatusPendingCommittee      Status = "Pending Committee"
	StatusApproved              Status = "Approved"
	StatusRejected              Status = "Rejected"
	StatusGazetteIntention      Status = "Gazette Notice (Intention)"
	StatusPublicParticipation   Status = "Public Participation"
	StatusInquiryNotice         Status = "Notice of Inquiry"
	StatusInquiryConducted      Status = "Inquiry Conducted"
	StatusCompensationSchedule  Status = "Compensation Schedule"
	StatusFundsRequested        Status = "Funds Requested"
	StatusFundsDeposited        Status = "Funds Deposited"
	StatusAwardsIssued          Status = "Awards Issued"
	StatusPaymentProcessing     Status = "Payment Processing"
	StatusVesting               Status = "Vesting"
	StatusTitleRegistered       Status = "Title Registered"
)

var statuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderScrutiny,
	StatusReturnedForCorrection,
	StatusPendingCommittee,
	StatusApproved,
	StatusRejected,
	StatusGazetteIntention,
	StatusPublicParticipation,
	StatusInquiryNotice,
	StatusInquiryConducted,
	StatusCompensationSchedule,
	StatusFundsRequested,
	StatusFundsDeposited,
	StatusAwardsIssued,
	StatusPaymentProcessing,
	StatusVesting,
	StatusTitleRegistered,
}

// Statuses returns the closed status set in nominal forward order.
func Statuses() []Status {
	return statuses
}

// ParseStatus validates a string as a known case status.
// Returns ErrInvalidStatus if the value is not recognized.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known status value.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParcelStatus is a parcel's acceptance state, independent of the case status.
type ParcelStatus string

// Parcel statuses.
const (
	ParcelPending     ParcelStatus = "Pending"
	ParcelVerified    ParcelStatus = "Verified"
	ParcelContested   ParcelStatus = "Contested"
	ParcelAccepted    ParcelStatus = "Accepted"
	ParcelCompensated ParcelStatus = "Compensated"
)

// FlowStatus is a document review stage state.
type FlowStatus string

// Document flow stage statuses.
const (
	FlowPending   FlowStatus = "Pending"
	FlowInReview  FlowStatus = "In Review"
	FlowApproved  FlowStatus = "Approved"
	FlowNeedsInfo FlowStatus = "Needs Info"
)

// Format is a document file format. The set is closed.
type Format string

// Supported document formats.
const (
	FormatPDF  Format = "PDF"
	FormatCSV  Format = "CSV"
	FormatDOCX Format = "DOCX"
)

// Category is a document category. The set is closed; the subset a case must
// eventually carry is defined by the documents package.
type Category string

// Document categories.
const (
	CategoryAcquisitionPlan Category = "Acquisition Plan"
	CategoryParcelList      Category = "Parcel List"
	CategoryESIAReport      Category = "ESIA Report"
	CategoryProjectCert     Category = "Project Cert"
	CategoryRAPReport       Category = "RAP Report"
	CategoryFundsAvail      Category = "Funds Avail"
)

var categories = []Category{
	CategoryAcquisitionPlan,
	CategoryParcelList,
	CategoryESIAReport,
	CategoryProjectCert,
	CategoryRAPReport,
	CategoryFundsAvail,
}

// Categories returns the closed document category set.
func Categories() []Category {
	return categories
}

// ParseCategory validates a string as a known document category.
// Returns ErrInvalidCategory if the value is not recognized.
func ParseCategory(s string) (Category, error) {
	v := Category(s)
	if !slices.Contains(categories, v) {
		return "", ErrInvalidCategory
	}
	return v, nil
}
