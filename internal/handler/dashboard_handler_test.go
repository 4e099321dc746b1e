package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/internal/models"
	appErrors "github.com/rosterhub/rosterhub-api/pkg/errors"
)

type fakeStatsService struct {
	stats    models.RosterStats
	counts   models.RosterCounts
	ready    bool
	statsErr error
	retryErr error
	retries  int
}

func (f *fakeStatsService) Stats() (models.RosterStats, models.RosterCounts, error) {
	return f.stats, f.counts, f.statsErr
}

func (f *fakeStatsService) Retry(_ context.Context) error {
	f.retries++
	return f.retryErr
}

func (f *fakeStatsService) Ready() bool { return f.ready }

func TestDashboardHandlerSummary(t *testing.T) {
	svc := &fakeStatsService{
		ready: true,
		stats: models.RosterStats{
			Total:              3,
			CourseDistribution: map[string]int{"CS": 2, "DS": 1},
			MostPopularCourse:  "CS",
		},
		counts: models.RosterCounts{Total: 3, Active: 2, Graduated: 1},
	}
	h := NewDashboardHandler(svc)

	c, w := testContext(t, http.MethodGet, "/dashboard", nil)
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	require.Nil(t, envelope.Error)

	data := envelope.Data.(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, "CS", stats["most_popular_course"])
}

func TestDashboardHandlerSummaryUnavailable(t *testing.T) {
	svc := &fakeStatsService{statsErr: appErrors.Clone(appErrors.ErrUnavailable, "roster not initialized")}
	h := NewDashboardHandler(svc)

	c, w := testContext(t, http.MethodGet, "/dashboard", nil)
	h.Summary(c)

	assert.Equal(t, appErrors.ErrUnavailable.Status, w.Code)
}

func TestDashboardHandlerRetry(t *testing.T) {
	svc := &fakeStatsService{}
	h := NewDashboardHandler(svc)

	c, w := testContext(t, http.MethodPost, "/system/retry", nil)
	h.Retry(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.retries)
}

func TestDashboardHandlerRetryStillFailing(t *testing.T) {
	svc := &fakeStatsService{retryErr: appErrors.Clone(appErrors.ErrCatalogFetch, "failed to fetch courses, please try again")}
	h := NewDashboardHandler(svc)

	c, w := testContext(t, http.MethodPost, "/system/retry", nil)
	h.Retry(c)

	assert.Equal(t, appErrors.ErrCatalogFetch.Status, w.Code)
	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "failed to fetch courses, please try again", envelope.Error.Message)
}
