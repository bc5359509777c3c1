// Package service provides the core business service that implements
// the dependencies required by the HTTP layer and the CLI.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/cfinsight/internal/adapters/cache"
	"github.com/okian/cfinsight/internal/adapters/judge"
	"github.com/okian/cfinsight/internal/adapters/session"
	"github.com/okian/cfinsight/internal/domain/coach"
	"github.com/okian/cfinsight/internal/domain/insight"
	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/internal/domain/normalize"
	"github.com/okian/cfinsight/pkg/logger"
	"github.com/okian/cfinsight/pkg/metrics"
)

// Analysis modes used as metric labels.
const (
	ModeSingle  = "single"
	ModeCompare = "compare"
)

// Report is everything the dashboard shows for a single handle.
type Report struct {
	Handle   string             `json:"handle"`
	Profile  model.Profile      `json:"profile"`
	Rows     []model.Submission `json:"-"`
	Insights insight.Insights   `json:"insights"`
	// Strong and Weak are the coaching topics: head and tail of the ranking.
	Strong []string `json:"strongTopics"`
	Weak   []string `json:"weakTopics"`
}

// HeadToHead is a comparison plus both profiles.
type HeadToHead struct {
	insight.Comparison
	ProfileA model.Profile `json:"profileA"`
	ProfileB model.Profile `json:"profileB"`
}

// fetched is one memoized judge answer.
type fetched struct {
	profile model.Profile
	subs    []model.RawSubmission
}

// Service wires the judge, the derivation pipeline, the coach and the
// session store.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher  judge.Fetcher
	coach    *coach.Coach
	memo     *cache.Store[fetched]
	sessions *session.Store

	// Configuration
	judgeBaseURL  string
	cacheTTL      time.Duration
	cacheSize     int
	sessionTTL    time.Duration
	sessionSize   int
	purgeInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the judge client.
func WithFetcher(f judge.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithCoach sets the coach. Without one, coaching reports a missing key.
func WithCoach(c *coach.Coach) Option {
	return func(s *Service) {
		if c != nil {
			s.coach = c
		}
	}
}

// WithJudgeBaseURL sets the site root used for problem links.
func WithJudgeBaseURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.judgeBaseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithCacheTTL sets how long a fetched profile is reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheSize bounds the fetch memo.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSessionSize bounds the session store.
func WithSessionSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.sessionSize = size
		}
	}
}

// WithPurgeInterval sets how often expired memo and session entries are swept.
func WithPurgeInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.purgeInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		judgeBaseURL:  "https://codeforces.com",
		cacheTTL:      time.Hour,
		cacheSize:     1_000,
		sessionTTL:    24 * time.Hour,
		sessionSize:   10_000,
		purgeInterval: time.Minute,
		stopCh:        make(chan struct{}),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = judge.NewClient(judge.WithLogger(s.logger))
	}
	if s.coach == nil {
		s.coach = coach.New(nil)
	}
	s.memo = cache.New[fetched](cache.WithTTL(s.cacheTTL), cache.WithMaxSize(s.cacheSize))
	s.sessions = session.New(session.WithTTL(s.sessionTTL), session.WithMaxSize(s.sessionSize))
	return s
}

// Start launches the background sweeper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.purgeLoop(ctx, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Int("cacheSize", s.cacheSize),
		logger.Bool("coachAvailable", s.coach.Available()),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) purgeLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	t := time.NewTicker(s.purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-t.C:
			memo, sess := s.memo.Purge(), s.sessions.Purge()
			metrics.UpdateCacheEntries(s.memo.Len())
			metrics.UpdateActiveSessions(s.sessions.Len())
			if memo+sess > 0 {
				s.logger.Debug(ctx, "purged expired entries",
					logger.Int("profiles", memo),
					logger.Int("sessions", sess),
				)
			}
		}
	}
}

// fetch returns the judge data for handle, reusing a memoized answer when
// one is fresh. Failures are never memoized.
func (s *Service) fetch(ctx context.Context, handle string) (fetched, error) {
	key := strings.ToLower(handle)
	if f, ok := s.memo.Get(key); ok {
		metrics.RecordCacheHit()
		s.logger.Debug(ctx, "profile cache hit", logger.String("handle", handle))
		return f, nil
	}
	metrics.RecordCacheMiss()

	profile, subs, err := s.fetcher.Fetch(ctx, handle)
	if err != nil {
		return fetched{}, err
	}
	f := fetched{profile: profile, subs: subs}
	s.memo.Set(key, f)
	metrics.UpdateCacheEntries(s.memo.Len())
	return f, nil
}

// Analyze runs fetch, normalize and derive for one handle. A failed fetch
// short-circuits before any derivation.
func (s *Service) Analyze(ctx context.Context, handle string) (Report, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Report{}, fmt.Errorf("%w: empty handle", ErrUserNotFound)
	}

	f, err := s.fetch(ctx, handle)
	if err != nil {
		metrics.RecordAnalysisError(ModeSingle)
		s.logger.Warn(ctx, "analysis failed", logger.String("handle", handle), logger.Error(err))
		return Report{}, fmt.Errorf("%w: %q: %w", ErrUserNotFound, handle, err)
	}
	metrics.RecordAnalysis(ModeSingle)
	return s.report(handle, f), nil
}

func (s *Service) report(handle string, f fetched) Report {
	rows := normalize.Normalize(f.subs)
	ins := insight.Derive(rows)
	return Report{
		Handle:   handle,
		Profile:  f.profile,
		Rows:     rows,
		Insights: ins,
		Strong:   ins.StrongTopics(coach.TopicCount),
		Weak:     ins.WeakTopics(coach.TopicCount),
	}
}

// Compare fetches a then b sequentially and joins them. If either fetch
// fails no partial result is produced.
func (s *Service) Compare(ctx context.Context, a, b string) (HeadToHead, error) {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		metrics.RecordAnalysisError(ModeCompare)
		return HeadToHead{}, fmt.Errorf("%w: empty handle", ErrInvalidComparison)
	}

	fa, errA := s.fetch(ctx, a)
	var fb fetched
	var errB error
	if errA == nil {
		fb, errB = s.fetch(ctx, b)
	}
	if errA != nil || errB != nil {
		metrics.RecordAnalysisError(ModeCompare)
		cause := errA
		if cause == nil {
			cause = errB
		}
		s.logger.Warn(ctx, "comparison failed",
			logger.String("a", a),
			logger.String("b", b),
			logger.Error(cause),
		)
		return HeadToHead{}, fmt.Errorf("%w: %w", ErrInvalidComparison, cause)
	}

	metrics.RecordAnalysis(ModeCompare)
	ra, rb := s.report(a, fa), s.report(b, fb)
	return HeadToHead{
		Comparison: insight.Compare(
			insight.Side{Handle: a, Profile: ra.Profile, Rows: ra.Rows},
			insight.Side{Handle: b, Profile: rb.Profile, Rows: rb.Rows},
		),
		ProfileA: ra.Profile,
		ProfileB: rb.Profile,
	}, nil
}

// Coach generates a new coaching answer for handle and, when sessionID is
// set, stores it in that session. Missing credentials and generation
// failures come back as displayable text, not errors.
func (s *Service) Coach(ctx context.Context, sessionID, handle string) (string, error) {
	r, err := s.Analyze(ctx, handle)
	if err != nil {
		return "", err
	}
	if len(r.Insights.TagFrequency) == 0 {
		return coach.NotEnoughDataMessage, ErrNotEnoughData
	}

	var text string
	if s.coach.Available() {
		text = s.coach.Request(ctx, coach.Input{
			Handle:    r.Handle,
			Rating:    r.Profile.CurrentRating(),
			MaxRating: r.Profile.PeakRating(),
			Strong:    r.Strong,
			Weak:      r.Weak,
		})
	} else {
		metrics.RecordCoachRequest(metrics.OutcomeNoKey, 0)
		text = s.coach.Request(ctx, coach.Input{Handle: r.Handle})
	}

	if sessionID != "" {
		s.sessions.SetCoach(sessionID, r.Handle, text)
		metrics.UpdateActiveSessions(s.sessions.Len())
	}
	return text, nil
}

// Session records that sessionID is viewing handle and returns its state.
// Switching handles discards the stored coaching text.
func (s *Service) Session(sessionID, handle string) session.State {
	if sessionID == "" {
		return session.State{Handle: handle}
	}
	st := s.sessions.Observe(sessionID, strings.TrimSpace(handle))
	metrics.UpdateActiveSessions(s.sessions.Len())
	return st
}

// ProblemURL links a normalized row to its problem page.
func (s *Service) ProblemURL(sub model.Submission) string {
	return judge.ProblemURL(s.judgeBaseURL, sub.ContestID, sub.Index)
}

// CoachAvailable reports whether a text generator is configured.
func (s *Service) CoachAvailable() bool {
	return s.coach.Available()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":        s.started,
		"cachedProfiles": s.memo.Len(),
		"cacheTTL":       s.cacheTTL.String(),
		"purgeInterval":  s.purgeInterval.String(),
		"sessions":       s.sessions.Len(),
		"coachAvailable": s.coach.Available(),
	}
}
