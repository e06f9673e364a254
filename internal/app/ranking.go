package app

import (
	"sort"
	"sync"

	"trivia-service/internal/domain"
)

// SortRanking orders players by score descending, then total penalty ascending.
// Remaining ties keep their input order.
func SortRanking(players []domain.PlayerProgress) []domain.RankingEntry {
	entries := make([]domain.RankingEntry, 0, len(players))
	for _, p := range players {
		entries = append(entries, domain.RankingEntry{
			UserID:               p.UserID,
			DisplayName:          p.DisplayName,
			Score:                p.Score,
			TotalPenaltySeconds:  p.TotalPenaltySeconds,
			CurrentQuestionIndex: p.CurrentQuestionIndex,
			FinishedAt:           p.FinishedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].TotalPenaltySeconds < entries[j].TotalPenaltySeconds
	})
	return entries
}

// RankingHub fans ranking updates out to live subscribers, per session.
type RankingHub struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.Ranking]struct{}
}

func NewRankingHub() *RankingHub {
	return &RankingHub{subs: make(map[string]map[chan domain.Ranking]struct{})}
}

// subscribe registers a buffered channel that first receives initial.
// The returned cancel must be called to release it.
func (h *RankingHub) subscribe(sessionID string, initial domain.Ranking) (<-chan domain.Ranking, func()) {
	ch := make(chan domain.Ranking, 8)
	ch <- initial

	h.mu.Lock()
	set, ok := h.subs[sessionID]
	if !ok {
		set = make(map[chan domain.Ranking]struct{})
		h.subs[sessionID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set, ok := h.subs[sessionID]
		if !ok {
			return
		}
		if _, ok := set[ch]; ok {
			delete(set, ch)
			close(ch)
		}
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
	return ch, cancel
}

func (h *RankingHub) hasSubscribers(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID]) > 0
}

func (h *RankingHub) broadcast(r domain.Ranking) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[r.GameSessionID] {
		select {
		case ch <- r:
		default:
			// Slow subscriber: replace the oldest pending update with the newest.
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}
