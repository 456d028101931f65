package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	c := NewCollector()

	c.ObserveQuery("aggregate", 5*time.Millisecond, nil)
	c.ObserveQuery("aggregate", time.Millisecond, nil)
	c.ObserveQuery("aggregate", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("aggregate", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("aggregate", "error")))
}

func TestHandlerExposesLoadGauges(t *testing.T) {
	c := NewCollector()
	c.ObserveLoad(607, 2*time.Second)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "salarydash_dataset_rows 607"), body)
	assert.True(t, strings.Contains(body, "salarydash_dataset_load_seconds 2"), body)
}
