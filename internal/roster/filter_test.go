package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "1", Name: "Alice", Email: "alice@example.com", Status: models.StatusActive, Course: "CS"},
		{ID: "2", Name: "Bob", Email: "bob@example.com", Status: models.StatusGraduated, Course: "DS"},
	}
}

func TestFilterByStatus(t *testing.T) {
	matched := Filter(sampleStudents(), models.RosterFilter{Status: models.StatusActive})
	require.Len(t, matched, 1)
	assert.Equal(t, "Alice", matched[0].Name)
}

func TestFilterBySearchCaseInsensitive(t *testing.T) {
	matched := Filter(sampleStudents(), models.RosterFilter{Search: "bob"})
	require.Len(t, matched, 1)
	assert.Equal(t, "Bob", matched[0].Name)

	matched = Filter(sampleStudents(), models.RosterFilter{Search: "ALICE@EXAMPLE"})
	require.Len(t, matched, 1)
	assert.Equal(t, "Alice", matched[0].Name)
}

func TestFilterCombinedNoMatch(t *testing.T) {
	matched := Filter(sampleStudents(), models.RosterFilter{Search: "bob", Status: models.StatusActive})
	assert.Empty(t, matched)

	// An empty base set filters to an empty set as well; both are empty
	// slices, the distinction is presentational.
	assert.Empty(t, Filter(nil, models.RosterFilter{}))
}

func TestFilterByCourse(t *testing.T) {
	matched := Filter(sampleStudents(), models.RosterFilter{Course: "DS"})
	require.Len(t, matched, 1)
	assert.Equal(t, "Bob", matched[0].Name)
}

func TestCounts(t *testing.T) {
	students := append(sampleStudents(), models.Student{ID: "3", Name: "Carol", Status: models.StatusInactive})
	counts := Counts(students)
	assert.Equal(t, models.RosterCounts{Total: 3, Active: 1, Inactive: 1, Graduated: 1}, counts)
}

func TestDistinctCoursesSorted(t *testing.T) {
	students := []models.Student{
		{Course: "Web Development"},
		{Course: "CS"},
		{Course: "Web Development"},
		{Course: ""},
		{Course: "Art"},
	}
	assert.Equal(t, []string{"Art", "CS", "Web Development"}, DistinctCourses(students))
}

func TestStatsDistributionAndMostPopular(t *testing.T) {
	students := []models.Student{
		{Course: "CS"},
		{Course: "CS"},
		{Course: "DS"},
	}
	stats := Stats(students)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"CS": 2, "DS": 1}, stats.CourseDistribution)
	assert.Equal(t, "CS", stats.MostPopularCourse)
}

func TestStatsTieBreaksOnFirstEncountered(t *testing.T) {
	students := []models.Student{
		{Course: "DS"},
		{Course: "CS"},
		{Course: "CS"},
		{Course: "DS"},
	}
	stats := Stats(students)
	assert.Equal(t, "DS", stats.MostPopularCourse)
}

func TestStatsEmpty(t *testing.T) {
	stats := Stats(nil)
	assert.Equal(t, 0, stats.Total)
	assert.Empty(t, stats.CourseDistribution)
	assert.Empty(t, stats.MostPopularCourse)
}
