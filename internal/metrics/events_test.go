package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
)

func TestEventMetricsCollector_SpinClaimed(t *testing.T) {
	bus := event.NewMemoryBus()
	c := NewEventMetricsCollector()
	c.Register(bus)
	defer c.Unregister()

	claimedBefore := testutil.ToFloat64(SpinsClaimed.WithLabelValues("SC"))
	paidBefore := testutil.ToFloat64(RewardsPaid.WithLabelValues("SC"))

	outcome := domain.SpinOutcome{SpinID: "s1", Type: domain.CurrencySC, Amount: 2.5}
	require.NoError(t, bus.Publish(context.Background(),
		event.NewSpinClaimedEvent(outcome, domain.ClaimAck{SpinID: "s1", ClaimedAt: time.Now()})))
	require.NoError(t, bus.Publish(context.Background(),
		event.NewSpinClaimedEvent(outcome, domain.ClaimAck{SpinID: "s1", AlreadyClaimed: true})))

	assert.Equal(t, claimedBefore+1, testutil.ToFloat64(SpinsClaimed.WithLabelValues("SC")))
	assert.Equal(t, paidBefore+2.5, testutil.ToFloat64(RewardsPaid.WithLabelValues("SC")))
}

func TestEventMetricsCollector_Unregister(t *testing.T) {
	bus := event.NewMemoryBus()
	c := NewEventMetricsCollector()
	c.Register(bus)
	assert.Equal(t, 1, bus.HandlerCount(event.ConfigUpdated))

	c.Unregister()
	assert.Equal(t, 0, bus.HandlerCount(event.ConfigUpdated))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/spins/{spinID}/claim", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/spins/{spinID}/claim", "409"))

	req := httptest.NewRequest(http.MethodPost, "/spins/abc-123/claim", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/spins/{spinID}/claim", "409")))
}
