package models

import "time"

type Mechanic struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Specialty  string     `json:"specialty,omitempty"`
	HourlyRate *float64   `json:"hourly_rate,omitempty"`
	HireDate   *time.Time `json:"hire_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MechanicWorkload pairs a mechanic with the number of tickets ever
// assigned to them. Mechanics with no assignments appear with count 0.
type MechanicWorkload struct {
	Mechanic
	TicketCount int64 `json:"ticket_count"`
}
