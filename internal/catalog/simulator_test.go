package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/pkg/config"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

func newTestSimulator(failureRate float64) *Simulator {
	return NewSimulator(config.CatalogConfig{
		FailureRate: failureRate,
		Seed:        42,
	})
}

func TestCoursesReturnsCatalog(t *testing.T) {
	sim := newTestSimulator(0)

	courses, err := sim.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 6)
	assert.Equal(t, "Computer Science", courses[0].Name)
}

func TestCoursesReturnsCopies(t *testing.T) {
	sim := newTestSimulator(0)

	first, err := sim.Courses(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := sim.Courses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Computer Science", second[0].Name)
}

func TestCoursesAlwaysFailsAtFullFailureRate(t *testing.T) {
	sim := newTestSimulator(1)

	_, err := sim.Courses(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCatalogFetch.Code, appErr.Code)
	assert.Equal(t, "failed to fetch courses, please try again", appErr.Message)
}

func TestCoursesRespectsContextCancellation(t *testing.T) {
	sim := NewSimulator(config.CatalogConfig{
		MinDelay: time.Minute,
		MaxDelay: time.Minute,
		Seed:     42,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := sim.Courses(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCourseByID(t *testing.T) {
	sim := newTestSimulator(0)

	course, err := sim.CourseByID(context.Background(), "ds201")
	require.NoError(t, err)
	assert.Equal(t, "Data Science", course.Name)

	_, err = sim.CourseByID(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCheckEmail(t *testing.T) {
	sim := newTestSimulator(0)

	// No "@" is rejected without waiting on the simulated delay.
	ok, err := sim.CheckEmail(context.Background(), "no-at-sign.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = sim.CheckEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sim.CheckEmail(context.Background(), "a@b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoursesDeterministicWithSeed(t *testing.T) {
	a := newTestSimulator(0.5)
	b := newTestSimulator(0.5)

	for i := 0; i < 20; i++ {
		_, errA := a.Courses(context.Background())
		_, errB := b.Courses(context.Background())
		assert.Equal(t, errA == nil, errB == nil, "run %d diverged", i)
	}
}
