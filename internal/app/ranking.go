package app

import (
	"sort"
	"sync"

	"proctor-scoring-service/internal/domain"
)

// ComputeRanking orders a snapshot of completed exams by total score
// descending, ties broken by completion time descending (most recent
// first), and assigns 1-based ranks with percentile
// (cohort - rank) / cohort * 100. The snapshot is not mutated; persistence
// is the caller's separate step. An empty snapshot yields ErrEmptyCohort.
func ComputeRanking(cohort []domain.Exam) ([]domain.RankAssignment, error) {
	if len(cohort) == 0 {
		return nil, domain.ErrEmptyCohort
	}

	ordered := make([]domain.Exam, len(cohort))
	copy(ordered, cohort)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalScore != ordered[j].TotalScore {
			return ordered[i].TotalScore > ordered[j].TotalScore
		}
		return ordered[i].CompletedAt.After(ordered[j].CompletedAt)
	})

	n := len(ordered)
	assignments := make([]domain.RankAssignment, n)
	for i, exam := range ordered {
		rank := i + 1
		assignments[i] = domain.RankAssignment{
			ExamID:     exam.ID,
			TotalScore: exam.TotalScore,
			Rank:       rank,
			Percentile: float64(n-rank) / float64(n) * 100,
		}
	}
	return assignments, nil
}

// RankingFeed fans ranking snapshots out to subscribers. Slow consumers
// have their stale snapshot dropped so a ranking pass never blocks on a
// subscriber.
type RankingFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.RankingSnapshot]struct{}
}

func NewRankingFeed() *RankingFeed {
	return &RankingFeed{subscribers: make(map[chan domain.RankingSnapshot]struct{})}
}

// Subscribe returns a channel of ranking snapshots. The caller must invoke
// the returned cancel function to avoid leaks.
func (f *RankingFeed) Subscribe() (<-chan domain.RankingSnapshot, func()) {
	ch := make(chan domain.RankingSnapshot, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber, evicting a stale one
// from any full buffer first.
func (f *RankingFeed) Publish(snapshot domain.RankingSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}
