package cases

import "slices"

// Role identifies a participant in the acquisition process. Authorization for
// workflow actions is decided from the role, never from UI visibility.
type Role string

// Process roles.
const (
	RoleAcquiringBody     Role = "ACQUIRING_BODY"
	RoleChairman          Role = "NLCC_CHAIRMAN"
	RoleDirectorValuation Role = "DIRECTOR_VALUATION"
	RoleValuationTeam     Role = "VALUATION_TEAM"
	RoleLegalTeam         Role = "LEGAL_TEAM"
	RoleLandRegistrar     Role = "LAND_REGISTRAR"
	RoleCommittee         Role = "LAND_ACQUISITION_COMMITTEE"
	RoleGovtPrinter       Role = "GOVT_PRINTER"
	RoleFinance           Role = "FINANCE"
	RoleInterestedParty   Role = "INTERESTED_PARTY"
)

var roles = []Role{
	RoleAcquiringBody,
	RoleChairman,
	RoleDirectorValuation,
	RoleValuationTeam,
	RoleLegalTeam,
	RoleLandRegistrar,
	RoleCommittee,
	RoleGovtPrinter,
	RoleFinance,
	RoleInterestedParty,
}

var roleLabels = map[Role]string{
	RoleAcquiringBody:     "Applicant (Acquiring Body)",
	RoleChairman:          "NLC Chairman (NLCC)",
	RoleDirectorValuation: "Director Valuation & Taxation",
	RoleValuationTeam:     "Valuation Team",
	RoleLegalTeam:         "Legal Team",
	RoleLandRegistrar:     "Land Registrar",
	RoleCommittee:         "Land Acquisition Committee",
	RoleGovtPrinter:       "Government Printer",
	RoleFinance:           "Finance Committee",
	RoleInterestedParty:   "Interested Party / Claimant",
}

// Roles returns the closed role set.
func Roles() []Role {
	return roles
}

// Label returns the display label for the role, or the raw value when unknown.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// ParseRole validates a string as a known process role.
// Returns ErrInvalidRole if the value is not recognized.
func ParseRole(s string) (Role, error) {
	v := Role(s)
	if !slices.Contains(roles, v) {
		return "", ErrInvalidRole
	}
	return v, nil
}
