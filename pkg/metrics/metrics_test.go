package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gather(registry *prometheus.Registry, name string) *dto.MetricFamily {
	families, err := registry.Gather()
	So(err, ShouldBeNil)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithHistogramBuckets([]float64{1, 10}),
			WithPrometheusRegistry(registry),
		)

		Convey("When a cache hit is recorded", func() {
			manager.cacheHits.WithLabelValues("posts").Inc()
			manager.cacheHits.WithLabelValues("posts").Inc()

			Convey("Then the counter is exported under the namespace", func() {
				family := gather(registry, "test_unit_cache_hits_total")
				So(family, ShouldNotBeNil)
				So(family.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 2)
			})
		})

		Convey("When the cache size is set", func() {
			manager.cacheEntries.Set(3)

			Convey("Then the gauge reports it", func() {
				family := gather(registry, "test_unit_cache_entries")
				So(family, ShouldNotBeNil)
				So(family.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 3)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording every kind of activity", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordUpstreamRequest("posts", 12)
					RecordUpstreamError("posts", "status_500")
					RecordPageFetched("posts", 100)
					RecordAuthFailure()
					RecordCacheHit("events")
					RecordCacheMiss("events")
					RecordCacheEviction()
					UpdateCacheEntries(3)
					RecordPipeline("people", 40, 3)
					RecordWarning("insufficient_rows")
					RecordHTTPRequest("stats", "GET", "200")
					RecordHTTPRequestDuration("stats", "GET", "200", 4)
					RecordErrorByEndpoint("stats", "GET", "server_error")
				}, ShouldNotPanic)
			})

			Convey("And the global registry exposes them", func() {
				RecordCacheHit("events")
				So(gather(GetRegistry(), "worthboard_cache_hits_total"), ShouldNotBeNil)
			})
		})
	})
}
