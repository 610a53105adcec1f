package model

import "time"

type PlanType string

const (
	PlanMonthly   PlanType = "monthly"
	PlanQuarterly PlanType = "quarterly"
	PlanYearly    PlanType = "yearly"
)

func (t PlanType) IsValid() bool {
	switch t {
	case PlanMonthly, PlanQuarterly, PlanYearly:
		return true
	}
	return false
}

type FeatureCategory string

const (
	FeatureBasic     FeatureCategory = "basic"
	FeatureFacility  FeatureCategory = "facility"
	FeatureClass     FeatureCategory = "class"
	FeatureTrainer   FeatureCategory = "trainer"
	FeatureEquipment FeatureCategory = "equipment"
	FeatureCardio    FeatureCategory = "cardio"
	FeatureStrength  FeatureCategory = "strength"
	FeatureWellness  FeatureCategory = "wellness"
	FeatureNutrition FeatureCategory = "nutrition"
	FeatureExtra     FeatureCategory = "extra"
)

func (c FeatureCategory) IsValid() bool {
	switch c {
	case FeatureBasic, FeatureFacility, FeatureClass, FeatureTrainer, FeatureEquipment,
		FeatureCardio, FeatureStrength, FeatureWellness, FeatureNutrition, FeatureExtra:
		return true
	}
	return false
}

type Feature struct {
	Text        string          `json:"text"`
	Category    FeatureCategory `json:"category"`
	Highlight   bool            `json:"highlight"`
	Description string          `json:"description,omitempty"`
}

type PlanMetadata struct {
	Views          int64   `json:"views"`
	Subscriptions  int64   `json:"subscriptions"`
	ConversionRate float64 `json:"conversionRate"`
}

// Plan is a pricing plan in the catalog. Appointments point at it by ID
// without any storage-level constraint.
type Plan struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	Type               PlanType     `json:"type"`
	Price              float64      `json:"price"`
	Features           []Feature    `json:"features"`
	IsPopular          bool         `json:"isPopular"`
	Availability       string       `json:"availability"`
	Active             bool         `json:"active"`
	TermsAndConditions string       `json:"termsAndConditions,omitempty"`
	Metadata           PlanMetadata `json:"metadata"`
	StripeProductID    string       `json:"stripeProductId,omitempty"`
	StripePriceID      string       `json:"stripePriceId,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}
