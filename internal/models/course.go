package models

// Course is read-only reference data sourced from the remote catalog. The
// application never creates or mutates courses.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Instructor  string `json:"instructor"`
}
