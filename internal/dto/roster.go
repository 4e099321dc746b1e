package dto

import "github.com/rosterhub/rosterhub-api/internal/models"

// RosterListResponse is the browser payload: the filtered subset plus
// derivations over the full record set.
type RosterListResponse struct {
	Students []models.Student    `json:"students"`
	Counts   models.RosterCounts `json:"counts"`
	Courses  []string            `json:"courses"`
}

// DashboardResponse aggregates roster statistics.
type DashboardResponse struct {
	Stats  models.RosterStats  `json:"stats"`
	Counts models.RosterCounts `json:"counts"`
}

// AvailabilityResponse reports the simulated email check result.
type AvailabilityResponse struct {
	Email     string `json:"email"`
	Available bool   `json:"available"`
}
