package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/okian/wodboard/internal/domain/leaderboard"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/metrics"
)

type scoreKey struct {
	eventID   string
	athleteID string
}

type competitionState struct {
	competition model.Competition // Scores is always nil here
	scores      map[scoreKey]model.ScoreRecord
	board       []leaderboard.Entry
	hasBoard    bool
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	competitions map[string]*competitionState
	now          func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		competitions: make(map[string]*competitionState),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveCompetition implements Store.
func (s *MemoryStore) SaveCompetition(_ context.Context, c model.Competition) error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidCompetition)
	}
	st := &competitionState{
		competition: cloneCompetition(c),
		scores:      make(map[scoreKey]model.ScoreRecord, len(c.Scores)),
	}
	st.competition.Scores = nil
	for _, rec := range c.Scores {
		st.scores[scoreKey{rec.EventID, rec.AthleteID}] = rec
	}

	s.mu.Lock()
	s.competitions[c.ID] = st
	s.mu.Unlock()
	s.updateMetrics()
	return nil
}

// Competition implements Store.
func (s *MemoryStore) Competition(_ context.Context, id string) (model.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.competitions[id]
	if !ok {
		return model.Competition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := cloneCompetition(st.competition)
	c.Scores = make([]model.ScoreRecord, 0, len(st.scores))
	for _, rec := range st.scores {
		c.Scores = append(c.Scores, rec)
	}
	sort.Slice(c.Scores, func(i, j int) bool {
		a, b := c.Scores[i], c.Scores[j]
		if a.EventID != b.EventID {
			return a.EventID < b.EventID
		}
		return a.AthleteID < b.AthleteID
	})
	return c, nil
}

// CompetitionIDs implements Store.
func (s *MemoryStore) CompetitionIDs(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.competitions))
	for id := range s.competitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// UpsertScore implements Store.
func (s *MemoryStore) UpsertScore(_ context.Context, competitionID string, rec model.ScoreRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.competitions[competitionID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, competitionID)
	}
	if _, ok := st.competition.Event(rec.EventID); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownEvent, rec.EventID)
	}
	if _, ok := st.competition.Registration(rec.AthleteID); !ok {
		return false, fmt.Errorf("%w: %s", ErrNotRegistered, rec.AthleteID)
	}

	key := scoreKey{rec.EventID, rec.AthleteID}
	if prev, ok := st.scores[key]; ok && prev.Value == rec.Value && prev.Status == rec.Status {
		return false, nil
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}
	st.scores[key] = rec
	metrics.UpdateScores(s.scoreCountLocked())
	return true, nil
}

// SaveLeaderboard implements Store.
func (s *MemoryStore) SaveLeaderboard(_ context.Context, competitionID string, entries []leaderboard.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.competitions[competitionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, competitionID)
	}
	st.board = slices.Clone(entries)
	st.hasBoard = true
	return nil
}

// Leaderboard implements Store.
func (s *MemoryStore) Leaderboard(_ context.Context, competitionID string) ([]leaderboard.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.competitions[competitionID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, competitionID)
	}
	if !st.hasBoard {
		return nil, false, nil
	}
	return slices.Clone(st.board), true, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.competitions)
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	metrics.UpdateCompetitions(len(s.competitions))
	metrics.UpdateScores(s.scoreCountLocked())
}

func (s *MemoryStore) scoreCountLocked() int {
	n := 0
	for _, st := range s.competitions {
		n += len(st.scores)
	}
	return n
}

func cloneCompetition(c model.Competition) model.Competition {
	out := c
	out.Events = make([]model.Event, len(c.Events))
	for i, e := range c.Events {
		e.PublishedDivisions = slices.Clone(e.PublishedDivisions)
		out.Events[i] = e
	}
	out.Registrations = slices.Clone(c.Registrations)
	out.Scores = slices.Clone(c.Scores)
	return out
}
