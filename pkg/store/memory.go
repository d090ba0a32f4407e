package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/convocheck/convocheck/pkg/script"
	"github.com/convocheck/convocheck/pkg/transcript"
)

// DefaultMaxTranscriptSize caps stored transcripts, keeping the most recent
// rows when a run exceeds it.
const DefaultMaxTranscriptSize = 1000

type InMemoryCaseStore struct {
	mu   sync.RWMutex
	data map[string]*script.TestCase
}

var _ CaseStore = &InMemoryCaseStore{}

func NewInMemoryCaseStore() *InMemoryCaseStore {
	return &InMemoryCaseStore{
		data: make(map[string]*script.TestCase),
	}
}

func (s *InMemoryCaseStore) Get(testID string) (*script.TestCase, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tc, ok := s.data[testID]
	return tc, ok
}

func (s *InMemoryCaseStore) ListAll() []*script.TestCase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cases := make([]*script.TestCase, 0, len(s.data))
	for _, tc := range s.data {
		cases = append(cases, tc)
	}
	sort.Slice(cases, func(i, j int) bool {
		return cases[i].TestID < cases[j].TestID
	})

	return cases
}

func (s *InMemoryCaseStore) Upsert(tc *script.TestCase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[tc.TestID] = tc
}

func (s *InMemoryCaseStore) Delete(testID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[testID]; !ok {
		return false
	}
	delete(s.data, testID)

	return true
}

type InMemoryRunStore struct {
	mu                sync.RWMutex
	data              map[string]*Run
	maxTranscriptSize int
}

var _ RunStore = &InMemoryRunStore{}

func NewInMemoryRunStore(maxTranscriptSize int) *InMemoryRunStore {
	if maxTranscriptSize <= 0 {
		maxTranscriptSize = DefaultMaxTranscriptSize
	}

	return &InMemoryRunStore{
		data:              make(map[string]*Run),
		maxTranscriptSize: maxTranscriptSize,
	}
}

func (s *InMemoryRunStore) Create(testID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	run := &Run{
		ID:        uuid.NewString(),
		TestID:    testID,
		Status:    RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data[run.ID] = run

	return run.ID
}

func (s *InMemoryRunStore) Get(runID string) (*Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, false
	}

	copied := *run
	return &copied, true
}

func (s *InMemoryRunStore) ListRecent(limit int) []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*Run, 0, len(s.data))
	for _, run := range s.data {
		copied := *run
		runs = append(runs, &copied)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs
}

func (s *InMemoryRunStore) Update(runID string, update RunUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.data[runID]
	if !ok {
		return false
	}

	if update.Status != "" {
		run.Status = update.Status
	}
	if update.Transcript != nil {
		run.Transcript = s.capTranscript(update.Transcript)
	}
	if update.Evaluation != nil {
		run.Evaluation = update.Evaluation
	}
	if len(update.AppendTranscript) > 0 {
		combined := append(run.Transcript, update.AppendTranscript...)
		run.Transcript = s.capTranscript(combined)
	}
	run.UpdatedAt = time.Now().UTC()

	return true
}

// capTranscript keeps only the most recent rows once the cap is exceeded.
func (s *InMemoryRunStore) capTranscript(tr transcript.Transcript) transcript.Transcript {
	if len(tr) <= s.maxTranscriptSize {
		return tr
	}
	return tr[len(tr)-s.maxTranscriptSize:]
}
