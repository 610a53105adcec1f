package model

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) IsValid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

type Promotion struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	Type              DiscountType `json:"type"`
	Value             float64      `json:"value"`
	StartDate         time.Time    `json:"startDate"`
	EndDate           time.Time    `json:"endDate"`
	MaxUses           *int         `json:"maxUses,omitempty"`
	CurrentUses       int          `json:"currentUses"`
	MinPurchaseAmount *float64     `json:"minPurchaseAmount,omitempty"`
	ApplicablePlans   []string     `json:"applicablePlans"`
	Active            bool         `json:"active"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// AppliesTo reports whether the promotion may be used with planID.
// An empty plan list means every plan.
func (p Promotion) AppliesTo(planID string) bool {
	if len(p.ApplicablePlans) == 0 {
		return true
	}
	for _, id := range p.ApplicablePlans {
		if id == planID {
			return true
		}
	}
	return false
}

func (p Promotion) LiveAt(t time.Time) bool {
	return p.Active && !t.Before(p.StartDate) && !t.After(p.EndDate)
}

type Event struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	DiscountType    DiscountType `json:"discountType"`
	DiscountValue   float64      `json:"discountValue"`
	ApplicablePlans []string     `json:"applicablePlans"`
	Active          bool         `json:"active"`
	CreatedAt       time.Time    `json:"createdAt"`
}
