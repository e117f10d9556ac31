package documents

import (
	"slices"

	"github.com/nlc-digital/landcom/internal/cases"
)

// required is the category set a case must eventually carry. Project Cert is
// a recognized category but not a required one.
var required = []cases.Category{
	cases.CategoryAcquisitionPlan,
	cases.CategoryParcelList,
	cases.CategoryESIAReport,
	cases.CategoryRAPReport,
	cases.CategoryFundsAvail,
}

// Required returns the fixed required-category set.
func Required() []cases.Category {
	return slices.Clone(required)
}

// CategoryCheck reports whether one required category is satisfied.
type CategoryCheck struct {
	Category  cases.Category `json:"category"`
	Satisfied bool           `json:"satisfied"`
}

// CheckCompleteness evaluates the case's documents against the required
// category set. A category is satisfied when any attached document carries it
// as its primary or AI-suggested category. Advisory only: the transition
// engine never consults it.
func CheckCompleteness(c *cases.Case) []CategoryCheck {
	checks := make([]CategoryCheck, 0, len(required))
	for _, category := range required {
		checks = append(checks, CategoryCheck{
			Category:  category,
			Satisfied: satisfies(c, category),
		})
	}
	return checks
}

// MissingCount returns the number of unsatisfied required categories.
func MissingCount(c *cases.Case) int {
	missing := 0
	for _, check := range CheckCompleteness(c) {
		if !check.Satisfied {
			missing++
		}
	}
	return missing
}

func satisfies(c *cases.Case, category cases.Category) bool {
	for _, d := range c.Documents {
		if d.Category == category {
			return true
		}
		if d.AICategory != nil && *d.AICategory == category {
			return true
		}
	}
	return false
}
