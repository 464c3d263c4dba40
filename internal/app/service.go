// Package service wires the scoring engine to storage, the submission queue
// and the worker pool, and implements the dependencies of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wodboard/internal/adapters/mq/queue"
	"github.com/okian/wodboard/internal/adapters/mq/worker"
	"github.com/okian/wodboard/internal/adapters/repository"
	"github.com/okian/wodboard/internal/domain/dedupe"
	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/okian/wodboard/pkg/metrics"
)

const (
	defaultQueueSize   = 10000
	defaultPointsPlace = 30
	stopTimeout        = 30 * time.Second
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      *queue.InMemoryQueue
	workerPool *worker.Pool

	// recomputeMu serialises read, aggregate and save so a slow worker
	// cannot overwrite a newer leaderboard with an older one.
	recomputeMu sync.Mutex

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	defaultConfig scoring.Config

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending submissions.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
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

// WithStore replaces the in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDefaultConfig sets the scoring config applied to competitions that
// do not name an algorithm.
func WithDefaultConfig(cfg scoring.Config) Option {
	return func(s *Service) {
		s.defaultConfig = cfg
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     defaultQueueSize,
		dedupeSize:    dedupe.DefaultMaxSize,
		defaultConfig: scoring.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service")
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start creates the submission queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workerPool = worker.NewPool(s.workerCount, s.queue, s, worker.WithPoolLogger(s.logger))
	// Workers outlive the start request.
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop drains pending submissions and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping scoring service")
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "scoring service stopped")
}

// SaveCompetition validates and stores a competition, assigning an id when
// it has none, and computes its leaderboard.
func (s *Service) SaveCompetition(ctx context.Context, c model.Competition) (model.Competition, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Scoring.Algorithm == "" {
		c.Scoring.Algorithm = s.defaultConfig.Algorithm
		if c.Scoring.Traditional == nil {
			c.Scoring.Traditional = s.defaultConfig.Traditional
		}
	}
	if err := ValidateCompetition(c); err != nil {
		return model.Competition{}, err
	}
	if err := s.store.SaveCompetition(ctx, c); err != nil {
		return model.Competition{}, fmt.Errorf("save competition: %w", err)
	}
	if err := s.recompute(ctx, c.ID); err != nil {
		return model.Competition{}, err
	}
	s.logger.Info(ctx, "competition saved",
		logger.String("competition_id", c.ID),
		logger.Int("events", len(c.Events)),
		logger.Int("registrations", len(c.Registrations)),
	)
	return c, nil
}

// Seed stores every competition, stopping at the first failure.
func (s *Service) Seed(ctx context.Context, competitions []model.Competition) error {
	for _, c := range competitions {
		if _, err := s.SaveCompetition(ctx, c); err != nil {
			return fmt.Errorf("seed competition %q: %w", c.ID, err)
		}
	}
	return nil
}

// Submit queues a score for asynchronous processing. Submissions are
// idempotent on their id; a repeated id reports duplicate without queueing.
func (s *Service) Submit(ctx context.Context, competitionID string, req types.ScoreRequest) (types.ScoreResponse, error) {
	if req.EventID == "" || req.AthleteID == "" {
		metrics.RecordSubmissionRejected()
		return types.ScoreResponse{}, fmt.Errorf("%w: event_id and athlete_id are required", ErrInvalidInput)
	}
	if _, err := s.store.Competition(ctx, competitionID); err != nil {
		metrics.RecordSubmissionRejected()
		return types.ScoreResponse{}, err
	}
	if req.SubmissionID == "" {
		req.SubmissionID = uuid.NewString()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.ScoreResponse{}, ErrNotStarted
	}

	key := competitionID + "/" + req.SubmissionID
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordSubmissionDuplicate()
		s.logger.Debug(ctx, "duplicate submission",
			logger.String("submission_id", req.SubmissionID),
			logger.String("competition_id", competitionID),
		)
		return types.ScoreResponse{SubmissionID: req.SubmissionID, Status: types.StatusDuplicate}, nil
	}

	sub := model.Submission{
		SubmissionID:  req.SubmissionID,
		CompetitionID: competitionID,
		EventID:       req.EventID,
		AthleteID:     req.AthleteID,
		Value:         req.Value,
		Status:        scoring.ParseStatus(req.Status),
		TS:            time.Now(),
	}
	if err := s.queue.Enqueue(ctx, sub); err != nil {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordSubmissionRejected()
		if errors.Is(err, queue.ErrFull) {
			return types.ScoreResponse{}, ErrBackpressure
		}
		if errors.Is(err, queue.ErrClosed) {
			return types.ScoreResponse{}, ErrNotStarted
		}
		return types.ScoreResponse{}, err
	}
	return types.ScoreResponse{SubmissionID: req.SubmissionID, Status: types.StatusAccepted}, nil
}

// Apply stores a submission and recomputes the competition's leaderboard
// when the stored score changed. It implements worker.Applier.
func (s *Service) Apply(ctx context.Context, sub model.Submission) error { //nolint:gocritic // hugeParam: matches worker.Applier
	changed, err := s.store.UpsertScore(ctx, sub.CompetitionID, sub.Record())
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	if !changed {
		return nil
	}
	return s.recompute(ctx, sub.CompetitionID)
}

func (s *Service) recompute(ctx context.Context, competitionID string) error {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	c, err := s.store.Competition(ctx, competitionID)
	if err != nil {
		return err
	}
	start := time.Now()
	entries := leaderboard.Aggregate(leaderboard.FromCompetition(c))
	metrics.RecordComputeLatency("leaderboard", float64(time.Since(start).Microseconds())/1000)
	metrics.RecordLeaderboardRecompute()

	if err := s.store.SaveLeaderboard(ctx, competitionID, entries); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	s.logger.Debug(ctx, "leaderboard recomputed",
		logger.String("competition_id", competitionID),
		logger.Int("entries", len(entries)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Service) board(ctx context.Context, competitionID string) ([]leaderboard.Entry, error) {
	entries, ok, err := s.store.Leaderboard(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if ok {
		return entries, nil
	}
	if err := s.recompute(ctx, competitionID); err != nil {
		return nil, err
	}
	entries, _, err = s.store.Leaderboard(ctx, competitionID)
	return entries, err
}

// Leaderboard returns the latest leaderboard of a competition, optionally
// restricted to one division.
func (s *Service) Leaderboard(ctx context.Context, competitionID, division string) (types.LeaderboardResponse, error) {
	entries, err := s.board(ctx, competitionID)
	if err != nil {
		return types.LeaderboardResponse{}, err
	}
	return types.LeaderboardResponse{
		CompetitionID: competitionID,
		Division:      division,
		Divisions:     leaderboard.Divisions(entries),
		Entries:       filterDivision(entries, division),
	}, nil
}

// EventLeaderboard returns the ranked results of one event.
func (s *Service) EventLeaderboard(ctx context.Context, competitionID, eventID, division string) (types.EventLeaderboardResponse, error) {
	c, err := s.store.Competition(ctx, competitionID)
	if err != nil {
		return types.EventLeaderboardResponse{}, err
	}
	if _, ok := c.Event(eventID); !ok {
		return types.EventLeaderboardResponse{}, fmt.Errorf("%w: %s", repository.ErrUnknownEvent, eventID)
	}
	entries, err := s.board(ctx, competitionID)
	if err != nil {
		return types.EventLeaderboardResponse{}, err
	}
	return types.EventLeaderboardResponse{
		CompetitionID: competitionID,
		EventID:       eventID,
		Division:      division,
		Rows:          leaderboard.EventLeaderboard(filterDivision(entries, division), eventID),
	}, nil
}

// ComputeEvent scores one event without storing anything.
func (s *Service) ComputeEvent(_ context.Context, req types.ComputeEventRequest) (types.ComputeEventResponse, error) {
	cfg := s.defaultConfig
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := cfg.Validate(); err != nil {
		return types.ComputeEventResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := req.Scheme.Validate(); err != nil {
		return types.ComputeEventResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	scores := make([]scoring.Score, len(req.Scores))
	for i, in := range req.Scores {
		scores[i] = in.Score()
	}

	start := time.Now()
	results := scoring.CalculateEventPoints(scores, req.Scheme, cfg, req.DivisionSize)
	metrics.RecordComputeLatency("event", float64(time.Since(start).Microseconds())/1000)

	out := types.ComputeEventResponse{
		Algorithm: cfg.Algorithm,
		Results:   make(map[string]types.EventResult, len(results)),
	}
	for id, r := range results {
		out.Results[id] = types.EventResult{Rank: r.Rank, Points: r.Points}
	}
	return out, nil
}

// ComputeLeaderboard aggregates a complete competition document without
// storing it.
func (s *Service) ComputeLeaderboard(_ context.Context, c model.Competition, division string) (types.LeaderboardResponse, error) {
	if c.Scoring.Algorithm == "" {
		c.Scoring.Algorithm = s.defaultConfig.Algorithm
	}
	if err := ValidateCompetition(c); err != nil {
		return types.LeaderboardResponse{}, err
	}

	start := time.Now()
	entries := leaderboard.Aggregate(leaderboard.FromCompetition(c), leaderboard.WithDivision(division))
	metrics.RecordComputeLatency("leaderboard", float64(time.Since(start).Microseconds())/1000)

	return types.LeaderboardResponse{
		CompetitionID: c.ID,
		Division:      division,
		Divisions:     leaderboard.Divisions(entries),
		Entries:       entries,
	}, nil
}

// Algorithms describes every supported algorithm.
func (s *Service) Algorithms() []types.AlgorithmInfo {
	algs := scoring.Algorithms()
	out := make([]types.AlgorithmInfo, len(algs))
	for i, a := range algs {
		out[i] = types.AlgorithmInfo{
			Name:                  a,
			DisplayName:           a.DisplayName(),
			LowerIsBetter:         a.LowerIsBetter(),
			CanHaveNegativeScores: scoring.Config{Algorithm: a}.CanHaveNegativeScores(),
		}
	}
	return out
}

// PointsTable previews the points per place of a positional algorithm.
func (s *Service) PointsTable(_ context.Context, req types.PointsTableRequest) (types.PointsTableResponse, error) {
	if err := req.Config.Validate(); err != nil {
		return types.PointsTableResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if req.Config.Algorithm == scoring.AlgorithmPScore {
		return types.PointsTableResponse{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrNotPositional)
	}
	places := req.Places
	if places <= 0 {
		places = defaultPointsPlace
	}
	return types.PointsTableResponse{
		Algorithm: req.Config.Algorithm,
		Places:    scoring.GeneratePointsTable(req.Config, places, req.DivisionSize),
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"dedupeLength": s.deduper.Size(),
		"competitions": s.store.Count(ctx),
	}
	if s.started {
		processed, failed := s.workerPool.Stats()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["processed"] = processed
		stats["failed"] = failed
	}
	return stats
}

// ValidateCompetition reports every problem with a competition document.
func ValidateCompetition(c model.Competition) error {
	var errs []error
	if err := c.Scoring.Validate(); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[string]bool, len(c.Events))
	for i, ev := range c.Events {
		if ev.ID == "" {
			errs = append(errs, fmt.Errorf("event %d: missing id", i))
			continue
		}
		if seen[ev.ID] {
			errs = append(errs, fmt.Errorf("event %q: duplicate id", ev.ID))
		}
		seen[ev.ID] = true
		if err := ev.Scheme.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("event %q: %w", ev.ID, err))
		}
	}
	for i, r := range c.Registrations {
		if r.AthleteID == "" {
			errs = append(errs, fmt.Errorf("registration %d: missing athlete_id", i))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
}

func filterDivision(entries []leaderboard.Entry, division string) []leaderboard.Entry {
	if division == "" {
		return entries
	}
	out := make([]leaderboard.Entry, 0, len(entries))
	for _, e := range entries {
		if e.DivisionID == division {
			out = append(out, e)
		}
	}
	return out
}
