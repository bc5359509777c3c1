package service_test

import (
	"context"
	"testing"

	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/config"
	"github.com/okian/cfinsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromConfig(t *testing.T) {
	for _, env := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(env, "")
	}

	Convey("Given default configuration without any model credential", t, func() {
		cfg := config.New()
		svc, err := service.FromConfig(context.Background(), cfg, logger.Get())

		Convey("Then the service is built with the coach disabled", func() {
			So(err, ShouldBeNil)
			So(svc.CoachAvailable(), ShouldBeFalse)
			So(svc.GetStats()["cacheTTL"], ShouldEqual, "1h0m0s")
			So(svc.GetStats()["purgeInterval"], ShouldEqual, "1m0s")
		})
	})

	Convey("Given a configured purge interval", t, func() {
		cfg := config.New()
		cfg.PurgeIntervalSeconds = 5
		svc, err := service.FromConfig(context.Background(), cfg, nil)

		Convey("Then the service sweeps on that interval", func() {
			So(err, ShouldBeNil)
			So(svc.GetStats()["purgeInterval"], ShouldEqual, "5s")
		})
	})

	Convey("Given the mock provider", t, func() {
		cfg := config.New()
		cfg.LLMProvider = "mock"
		svc, err := service.FromConfig(context.Background(), cfg, nil)

		Convey("Then the coach is enabled", func() {
			So(err, ShouldBeNil)
			So(svc.CoachAvailable(), ShouldBeTrue)
		})
	})

	Convey("Given an unknown provider with a key", t, func() {
		cfg := config.New()
		cfg.LLMProvider = "nope"
		cfg.LLMAPIKey = "k"
		_, err := service.FromConfig(context.Background(), cfg, nil)

		Convey("Then building fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
