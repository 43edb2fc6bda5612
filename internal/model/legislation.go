package model

import "time"

// Status is the derived lifecycle state of a legislation record
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Legislation represents a bill or policy open for public comment
type Legislation struct {
	LegislationID string    `json:"legislationId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartDate     string    `json:"startDate"` // YYYY-MM-DD
	EndDate       string    `json:"endDate"`   // YYYY-MM-DD
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LegislationFilter narrows a legislation listing. An empty Status matches all.
type LegislationFilter struct {
	Status Status
}
