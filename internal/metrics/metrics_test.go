package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinRedemptionsCounter(t *testing.T) {
	before := testutil.ToFloat64(PinRedemptions.WithLabelValues("redeemed"))
	PinRedemptions.WithLabelValues("redeemed").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(PinRedemptions.WithLabelValues("redeemed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	AITasks.WithLabelValues("find-matching-app", "ok").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "storefront_ai_tasks_total")
}
