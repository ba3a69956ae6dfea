package entities

import (
	"time"
)

// BookingDateLayout is the calendar date format used for appointment dates
const BookingDateLayout = "2006-01-02"

// BookingStatus classifies a stored booking relative to today
type BookingStatus string

const (
	BookingStatusUpcoming BookingStatus = "upcoming"
	BookingStatusPast     BookingStatus = "past"
)

// Booking is a persisted appointment. It is never mutated after creation.
type Booking struct {
	ID              string    `json:"id"`
	Reference       string    `json:"reference"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	DOB             string    `json:"dob"`
	Gender          string    `json:"gender"`
	AppointmentType string    `json:"appointmentType"`
	State           string    `json:"state"`
	District        string    `json:"district"`
	Hospital        string    `json:"hospital"`
	Department      string    `json:"department"`
	Date            string    `json:"date"`
	Timeslot        string    `json:"timeslot"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookingForm holds the raw appointment form fields as entered
type BookingForm struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	AppointmentType string `json:"appointmentType"`
	State           string `json:"state"`
	District        string `json:"district"`
	Hospital        string `json:"hospital"`
	Department      string `json:"department"`
	Date            string `json:"date"`
	Timeslot        string `json:"timeslot"`
}

// BookingView is a booking as rendered in the booking list
type BookingView struct {
	Booking Booking       `json:"booking"`
	Status  BookingStatus `json:"status"`
}

// DisplayID returns the identifier shown to the user
func (b *Booking) DisplayID() string {
	if b.Reference != "" {
		return b.Reference
	}
	return b.ID
}

// StatusOn classifies the booking against the calendar date of now.
// Unparseable dates are treated as past.
func (b *Booking) StatusOn(now time.Time) BookingStatus {
	date, err := time.ParseInLocation(BookingDateLayout, b.Date, now.Location())
	if err != nil {
		return BookingStatusPast
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return BookingStatusPast
	}
	return BookingStatusUpcoming
}
