package model

import "time"

var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var TimeSlots = []string{"Morning", "Afternoon", "Evening"}

var Expertise = []string{
	"Weight Training", "Cardio", "HIIT", "Yoga", "Pilates", "CrossFit", "Martial Arts", "Nutrition",
	"Sports Performance", "Rehabilitation", "Senior Fitness", "Pre/Post Natal", "Group Training",
	"Personal Training", "Weight Loss",
}

var QualificationIcons = []string{"FaDumbbell", "FaHeartbeat", "FaMedal", "FaGraduationCap", "FaCertificate", "FaAward"}

var SpecializationLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

type TrainerStatus string

const (
	TrainerAvailable   TrainerStatus = "Available"
	TrainerFullyBooked TrainerStatus = "Fully Booked"
	TrainerOnLeave     TrainerStatus = "On Leave"
	TrainerInactive    TrainerStatus = "Inactive"
)

func (s TrainerStatus) IsValid() bool {
	switch s {
	case TrainerAvailable, TrainerFullyBooked, TrainerOnLeave, TrainerInactive:
		return true
	}
	return false
}

type Qualification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
	Icon   string `json:"icon"`
}

type DayAvailability struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

type Specialization struct {
	Area  string `json:"area"`
	Level string `json:"level,omitempty"`
}

type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year,omitempty"`
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Trainer struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Specialty       []string          `json:"specialty"`
	Experience      string            `json:"experience"`
	Qualifications  []Qualification   `json:"qualifications"`
	Certifications  []string          `json:"certifications"`
	Bio             string            `json:"bio"`
	Expertise       []string          `json:"expertise"`
	Languages       []string          `json:"languages"`
	Availability    []DayAvailability `json:"availability"`
	Img             string            `json:"img,omitempty"`
	SocialMedia     SocialMedia       `json:"socialMedia"`
	Achievements    []Achievement     `json:"achievements"`
	Specializations []Specialization  `json:"specializations"`
	Rating          Rating            `json:"rating"`
	Active          bool              `json:"active"`
	Featured        bool              `json:"featured"`
	Status          TrainerStatus     `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
}
