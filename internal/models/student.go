package models

// Student status values. The stored value is the lowercase label.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusGraduated = "graduated"
)

// ValidStatus reports whether the given status is one of the known labels.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusGraduated:
		return true
	}
	return false
}

// Student is one roster record. The ID is assigned once at creation time and
// never changes; edits replace every other field in place.
type Student struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Course         string `json:"course"`
	Image          string `json:"image,omitempty"`
	EnrollmentDate string `json:"enrollment_date"`
	Status         string `json:"status"`
}

// RosterFilter holds the three independent list predicates. Zero values mean
// "no constraint".
type RosterFilter struct {
	Search string
	Status string
	Course string
}

// RosterCounts summarises the full record set by status.
type RosterCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Graduated int `json:"graduated"`
}

// RosterStats aggregates roster statistics for the dashboard view.
type RosterStats struct {
	Total              int            `json:"total"`
	CourseDistribution map[string]int `json:"course_distribution"`
	MostPopularCourse  string         `json:"most_popular_course"`
}
