package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/adapters/judge"
	"github.com/okian/cfinsight/internal/domain/coach"
	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// stubJudge serves canned answers keyed by lower-cased handle.
type stubJudge struct {
	mu       sync.Mutex
	profiles map[string][]model.RawSubmission
	calls    map[string]int
}

func newStubJudge() *stubJudge {
	return &stubJudge{
		profiles: map[string][]model.RawSubmission{},
		calls:    map[string]int{},
	}
}

func (s *stubJudge) add(handle string, subs ...model.RawSubmission) {
	s.profiles[strings.ToLower(handle)] = subs
}

func (s *stubJudge) count(handle string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[strings.ToLower(handle)]
}

func (s *stubJudge) Fetch(_ context.Context, handle string) (model.Profile, []model.RawSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(handle)
	s.calls[key]++
	subs, ok := s.profiles[key]
	if !ok {
		return model.Profile{}, nil, judge.ErrNotFound
	}
	return model.Profile{Handle: handle, Rating: intPtr(1500), MaxRating: intPtr(1700), Rank: "specialist"}, subs, nil
}

func sub(id int64, name string, rating int, verdict string, tags ...string) model.RawSubmission {
	return model.RawSubmission{
		ID:                  id,
		CreationTimeSeconds: 1710028800 + id*86400,
		Verdict:             verdict,
		Problem: &model.RawProblem{
			ContestID: intPtr(1000 + int(id)),
			Index:     strPtr("A"),
			Name:      name,
			Rating:    intPtr(rating),
			Tags:      tags,
		},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.CoachAvailable(), ShouldBeFalse)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["cachedProfiles"], ShouldEqual, 0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithFetcher(newStubJudge()),
			service.WithCacheTTL(time.Minute),
			service.WithCacheSize(10),
			service.WithSessionTTL(time.Hour),
			service.WithSessionSize(10),
			service.WithPurgeInterval(10*time.Millisecond),
			service.WithJudgeBaseURL("https://judge.example/"),
			service.WithLogger(logger.Get()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
			So(svc.ProblemURL(model.Submission{ContestID: 4, Index: "B"}), ShouldEqual,
				"https://judge.example/contest/4/problem/B")
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(service.WithFetcher(newStubJudge()), service.WithPurgeInterval(5*time.Millisecond))
		ctx := context.Background()

		Convey("When starting it twice and stopping it twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			time.Sleep(20 * time.Millisecond)
			svc.Stop()
			svc.Stop()

			Convey("Then it ends up stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a judge that knows one handle", t, func() {
		stub := newStubJudge()
		stub.add("tourist",
			sub(1, "Alpha", 800, "OK", "math", "greedy"),
			sub(2, "Beta", 1200, "WRONG_ANSWER", "dp"),
			sub(3, "Gamma", 1400, "OK", "math"),
		)
		svc := service.New(service.WithFetcher(stub))
		ctx := context.Background()

		Convey("When analyzing the known handle", func() {
			r, err := svc.Analyze(ctx, " tourist ")

			Convey("Then the report carries profile and insights", func() {
				So(err, ShouldBeNil)
				So(r.Handle, ShouldEqual, "tourist")
				So(r.Profile.RatingLabel(), ShouldEqual, "1500")
				So(r.Insights.Submissions, ShouldEqual, 3)
				So(r.Insights.Solved, ShouldEqual, 2)
				So(r.Strong[0], ShouldEqual, "math")
				So(len(r.Insights.Backlog), ShouldEqual, 1)
				So(r.Insights.Backlog[0].Problem, ShouldEqual, "Beta")
			})

			Convey("Then a second lookup is served from the memo", func() {
				_, err := svc.Analyze(ctx, "TOURIST")
				So(err, ShouldBeNil)
				So(stub.count("tourist"), ShouldEqual, 1)
				So(svc.GetStats()["cachedProfiles"], ShouldEqual, 1)
			})
		})

		Convey("When analyzing an unknown handle", func() {
			r, err := svc.Analyze(ctx, "ghost")

			Convey("Then it fails with ErrUserNotFound and derives nothing", func() {
				So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)
				So(errors.Is(err, judge.ErrNotFound), ShouldBeTrue)
				So(r.Rows, ShouldBeNil)
				So(r.Insights.Submissions, ShouldEqual, 0)
			})

			Convey("Then the failure is not memoized", func() {
				_, _ = svc.Analyze(ctx, "ghost")
				So(stub.count("ghost"), ShouldEqual, 2)
			})
		})

		Convey("When analyzing a blank handle", func() {
			_, err := svc.Analyze(ctx, "   ")

			Convey("Then the judge is never called", func() {
				So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)
				So(stub.count(""), ShouldEqual, 0)
			})
		})
	})
}

func TestService_Compare(t *testing.T) {
	Convey("Given a judge that knows two handles", t, func() {
		stub := newStubJudge()
		stub.add("a", sub(1, "Alpha", 800, "OK", "math"), sub(2, "Beta", 1200, "OK", "dp"))
		stub.add("b", sub(3, "Beta", 1200, "OK", "dp"), sub(4, "Gamma", 1600, "OK"))
		svc := service.New(service.WithFetcher(stub))
		ctx := context.Background()

		Convey("When comparing them", func() {
			h, err := svc.Compare(ctx, "a", "b")

			Convey("Then the shared problem is counted once", func() {
				So(err, ShouldBeNil)
				So(h.HandleA, ShouldEqual, "a")
				So(h.HandleB, ShouldEqual, "b")
				So(h.CommonSolved, ShouldEqual, 1)
				So(h.ProfileA.Handle, ShouldEqual, "a")
				So(len(h.Combined), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the first handle is unknown", func() {
			_, err := svc.Compare(ctx, "ghost", "b")

			Convey("Then the comparison is invalid and b is never fetched", func() {
				So(errors.Is(err, service.ErrInvalidComparison), ShouldBeTrue)
				So(stub.count("b"), ShouldEqual, 0)
			})
		})

		Convey("When the second handle is unknown", func() {
			_, err := svc.Compare(ctx, "a", "ghost")

			Convey("Then the comparison is invalid", func() {
				So(errors.Is(err, service.ErrInvalidComparison), ShouldBeTrue)
				So(errors.Is(err, judge.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a handle is blank", func() {
			_, err := svc.Compare(ctx, "a", "")
			So(errors.Is(err, service.ErrInvalidComparison), ShouldBeTrue)
		})
	})
}

func TestService_Coach(t *testing.T) {
	Convey("Given a judge with one tagged and one untagged handle", t, func() {
		stub := newStubJudge()
		stub.add("tagged", sub(1, "Alpha", 800, "OK", "math", "greedy"), sub(2, "Beta", 900, "OK", "dp"))
		stub.add("bare", sub(3, "Gamma", 800, "OK"))
		ctx := context.Background()

		Convey("When no generator is configured", func() {
			svc := service.New(service.WithFetcher(stub))
			text, err := svc.Coach(ctx, "sid", "tagged")

			Convey("Then the missing key message is returned and stored", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, coach.MissingKeyMessage)
				So(svc.Session("sid", "tagged").CoachText, ShouldEqual, coach.MissingKeyMessage)
			})
		})

		Convey("When a generator is configured", func() {
			var prompt string
			gen := coach.GeneratorFunc(func(_ context.Context, p string) (string, error) {
				prompt = p
				return "Practice more dp.", nil
			})
			svc := service.New(service.WithFetcher(stub), service.WithCoach(coach.New(gen)))
			text, err := svc.Coach(ctx, "sid", "tagged")

			Convey("Then the answer is returned and the prompt names the topics", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "Practice more dp.")
				So(prompt, ShouldContainSubstring, "tagged")
				So(prompt, ShouldContainSubstring, "math")
			})

			Convey("Then switching handles clears the stored answer", func() {
				So(svc.Session("sid", "TAGGED").CoachText, ShouldEqual, "Practice more dp.")
				So(svc.Session("sid", "other").CoachText, ShouldBeEmpty)
			})
		})

		Convey("When the handle has no tags", func() {
			called := false
			gen := coach.GeneratorFunc(func(context.Context, string) (string, error) {
				called = true
				return "", nil
			})
			svc := service.New(service.WithFetcher(stub), service.WithCoach(coach.New(gen)))
			text, err := svc.Coach(ctx, "sid", "bare")

			Convey("Then no call is made", func() {
				So(errors.Is(err, service.ErrNotEnoughData), ShouldBeTrue)
				So(text, ShouldEqual, coach.NotEnoughDataMessage)
				So(called, ShouldBeFalse)
			})
		})

		Convey("When the handle is unknown", func() {
			svc := service.New(service.WithFetcher(stub))
			_, err := svc.Coach(ctx, "sid", "ghost")
			So(errors.Is(err, service.ErrUserNotFound), ShouldBeTrue)
		})
	})
}
