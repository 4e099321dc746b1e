// Package roster holds the pure read-side derivations over the student set:
// filtering, summary counts and the distinct course list.
package roster

import (
	"sort"
	"strings"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

// Filter applies the three independent predicates in a single pass and
// returns the matching subset in input order.
func Filter(students []models.Student, filter models.RosterFilter) []models.Student {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Student, 0, len(students))
	for _, s := range students {
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.Email), search) {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.Course != "" && s.Course != filter.Course {
			continue
		}
		matched = append(matched, s)
	}
	return matched
}

// Counts summarises the full record set by status, independent of any filter.
func Counts(students []models.Student) models.RosterCounts {
	counts := models.RosterCounts{Total: len(students)}
	for _, s := range students {
		switch s.Status {
		case models.StatusActive:
			counts.Active++
		case models.StatusInactive:
			counts.Inactive++
		case models.StatusGraduated:
			counts.Graduated++
		}
	}
	return counts
}

// DistinctCourses returns the deduplicated, lexicographically sorted course
// values across the full record set.
func DistinctCourses(students []models.Student) []string {
	seen := make(map[string]struct{}, len(students))
	courses := make([]string, 0, len(students))
	for _, s := range students {
		if s.Course == "" {
			continue
		}
		if _, ok := seen[s.Course]; ok {
			continue
		}
		seen[s.Course] = struct{}{}
		courses = append(courses, s.Course)
	}
	sort.Strings(courses)
	return courses
}

// Stats recomputes roster statistics. Ties for the most popular course break
// toward the course encountered first in record order.
func Stats(students []models.Student) models.RosterStats {
	stats := models.RosterStats{
		Total:              len(students),
		CourseDistribution: make(map[string]int),
	}
	order := make([]string, 0, len(students))
	for _, s := range students {
		if s.Course == "" {
			continue
		}
		if _, ok := stats.CourseDistribution[s.Course]; !ok {
			order = append(order, s.Course)
		}
		stats.CourseDistribution[s.Course]++
	}
	best := 0
	for _, course := range order {
		if n := stats.CourseDistribution[course]; n > best {
			best = n
			stats.MostPopularCourse = course
		}
	}
	return stats
}
