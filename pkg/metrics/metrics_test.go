package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithMetricsEnabled(false),
				WithRefreshInterval(3*time.Second),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)
			manager.cacheHits.Inc()

			Convey("Then the options apply and families land on the registry", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "cfinsight_dashboard_fetch_cache_hits_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording judge requests", func() {
			before := testutil.ToFloat64(globalManager.judgeRequests.WithLabelValues("user.info", OutcomeOK))
			RecordJudgeRequest("user.info", OutcomeOK, 120)

			Convey("Then the counter moves by one", func() {
				after := testutil.ToFloat64(globalManager.judgeRequests.WithLabelValues("user.info", OutcomeOK))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording cache activity", func() {
			hits := testutil.ToFloat64(globalManager.cacheHits)
			RecordCacheHit()
			RecordCacheMiss()
			UpdateCacheEntries(7)

			Convey("Then counters and gauges reflect it", func() {
				So(testutil.ToFloat64(globalManager.cacheHits)-hits, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.cacheEntries), ShouldEqual, 7)
			})
		})

		Convey("When recording the remaining families", func() {
			So(func() {
				RecordSubmissionsFetched(250)
				RecordAnalysis("single")
				RecordAnalysisError("compare")
				RecordCoachRequest(OutcomeOK, 900)
				RecordCoachRequest(OutcomeNoKey, 0)
				UpdateActiveSessions(3)
				RecordHTTPRequest("profile", "GET", "200")
				RecordHTTPRequestDuration("profile", "GET", "200", 12)
				RecordErrorByComponent("judge", OutcomeTransport)
				RecordErrorByType("server_error", "high")
				RecordErrorByEndpoint("compare", "GET", "not_found")
				RecordErrorLatency("http", "not_found", 4)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When recording is switched off at runtime", func() {
			Configure(WithMetricsEnabled(false), WithRefreshInterval(time.Minute))
			defer Configure(WithMetricsEnabled(true), WithRefreshInterval(defaultRefreshInterval))

			hits := testutil.ToFloat64(globalManager.cacheHits)
			requests := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("profile", "GET", "200"))
			sessions := testutil.ToFloat64(globalManager.activeSessions)
			RecordCacheHit()
			RecordHTTPRequest("profile", "GET", "200")
			UpdateActiveSessions(int(sessions) + 41)
			RecordJudgeRequest("user.info", OutcomeOK, 10)

			Convey("Then no recorder moves its family", func() {
				So(RefreshInterval(), ShouldEqual, time.Minute)
				So(testutil.ToFloat64(globalManager.cacheHits), ShouldEqual, hits)
				So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("profile", "GET", "200")), ShouldEqual, requests)
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, sessions)
			})
		})

		Convey("When gathering the custom registry", func() {
			RecordAnalysis("single")
			families, err := GetRegistry().Gather()

			Convey("Then only cfinsight families are exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "cfinsight_dashboard_"), ShouldBeTrue)
				}
			})
		})
	})
}
