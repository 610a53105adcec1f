package model

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Appointment is the stored booking request. PlanID is a bare reference that
// may dangle once the plan is deleted.
type Appointment struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	PreferredDate time.Time
	Message       string
	PlanID        string
	Status        AppointmentStatus
	CreatedAt     time.Time
}

// AppointmentRow is what a read returns: the stored columns as found (a row
// written by hand or by an older schema may be incomplete) plus the joined
// plan, nil when the reference no longer resolves.
type AppointmentRow struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	PreferredDate *time.Time
	Message       string
	PlanID        string
	Status        string
	CreatedAt     *time.Time
	Plan          *Plan
}
