package appointments

import (
	"encoding/json"
	"time"

	"github.com/md-rashed-zaman/gymdesk/services/gym-service/internal/model"
)

const (
	deletedPlanTitle = "Plan Deleted"
	notAvailable     = "N/A"
)

// PlanView is the plan as shown next to an appointment. A nil plan renders
// as the "Plan Deleted" placeholder; the placeholder only exists here and is
// never written back.
type PlanView struct {
	plan *model.Plan
}

// ResolvePlan is the only place a plan reference becomes a PlanView.
// Every read path goes through it.
func ResolvePlan(p *model.Plan) PlanView {
	if p == nil || p.ID == "" {
		return PlanView{}
	}
	cp := *p
	return PlanView{plan: &cp}
}

func (v PlanView) Deleted() bool { return v.plan == nil }

// Plan returns the resolved plan, or false for the placeholder.
func (v PlanView) Plan() (model.Plan, bool) {
	if v.plan == nil {
		return model.Plan{}, false
	}
	return *v.plan, true
}

func (v PlanView) Title() string {
	if v.plan == nil {
		return deletedPlanTitle
	}
	return v.plan.Title
}

type placeholderPlan struct {
	ID    *string `json:"id"`
	Title string  `json:"title"`
	Price string  `json:"price"`
	Type  string  `json:"type"`
}

func (v PlanView) MarshalJSON() ([]byte, error) {
	if v.plan == nil {
		return json.Marshal(placeholderPlan{Title: deletedPlanTitle, Price: notAvailable, Type: notAvailable})
	}
	return json.Marshal(v.plan)
}

// View is an appointment with its plan reference resolved.
type View struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Email         string                  `json:"email"`
	Phone         string                  `json:"phone"`
	PreferredDate time.Time               `json:"preferredDate"`
	Message       string                  `json:"message,omitempty"`
	Plan          PlanView                `json:"plan"`
	Status        model.AppointmentStatus `json:"status"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// normalize builds the view for a stored row. ok is false when the row is
// not a well-formed appointment; such rows are skipped by listings.
func normalize(row model.AppointmentRow) (View, bool) {
	v := View{
		ID:      row.ID,
		Name:    row.Name,
		Email:   row.Email,
		Phone:   row.Phone,
		Message: row.Message,
		Plan:    ResolvePlan(row.Plan),
		Status:  model.AppointmentStatus(row.Status),
	}
	if row.PreferredDate != nil {
		v.PreferredDate = *row.PreferredDate
	}
	if row.CreatedAt != nil {
		v.CreatedAt = *row.CreatedAt
	}

	ok := row.ID != "" &&
		row.Name != "" &&
		row.Email != "" &&
		row.Phone != "" &&
		row.PlanID != "" &&
		row.PreferredDate != nil &&
		row.CreatedAt != nil &&
		v.Status.IsValid()
	return v, ok
}
