package app

import (
	"sort"
	"sync"
	"time"

	"live-trivia-service/internal/domain"
)

// Phase is the lifecycle state of a game room.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseInGame   Phase = "inGame"
	PhaseQuestion Phase = "question"
	PhaseReveal   Phase = "reveal"
	PhaseFinal    Phase = "final"
)

// Session is one in-memory game room: a quiz, its host, its players, and the
// question-loop state. All access goes through the mutex; the reveal timer is
// the only background task and is guarded by a generation counter so a stale
// firing after cancel or room teardown is a no-op.
type Session struct {
	pin    string
	hostID string
	quiz   domain.Quiz

	mu            sync.Mutex
	phase         Phase
	currentIndex  int
	questionStart time.Time
	answered      map[string]struct{}
	players       map[string]*domain.Player
	joinSeq       int
	now           func() time.Time

	revealTimer *time.Timer
	timerGen    uint64
}

// NewSession constructs a room in lobby phase with no players.
func NewSession(pin, hostID string, quiz domain.Quiz) *Session {
	return NewSessionWithClock(pin, hostID, quiz, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(pin, hostID string, quiz domain.Quiz, now func() time.Time) *Session {
	return &Session{
		pin:          pin,
		hostID:       hostID,
		quiz:         quiz,
		phase:        PhaseLobby,
		currentIndex: -1,
		answered:     make(map[string]struct{}),
		players:      make(map[string]*domain.Player),
		now:          now,
	}
}

// PIN returns the room code.
func (s *Session) PIN() string { return s.pin }

// Phase returns the current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// cancelTimerLocked disarms any pending reveal timer and bumps the generation
// so an already-fired callback that lost the race is discarded.
func (s *Session) cancelTimerLocked() {
	s.timerGen++
	if s.revealTimer != nil {
		s.revealTimer.Stop()
		s.revealTimer = nil
	}
}

// playerNamesLocked lists member names in join order.
func (s *Session) playerNamesLocked() []string {
	players := s.sortedPlayersLocked()
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return names
}

// leaderboardLocked ranks players by score descending. Ties order by earliest
// join, which keeps rankings deterministic across snapshots.
func (s *Session) leaderboardLocked() []domain.LeaderboardEntry {
	players := make([]*domain.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].JoinSeq < players[j].JoinSeq
	})

	entries := make([]domain.LeaderboardEntry, 0, len(players))
	for i, p := range players {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:  i + 1,
			Name:  p.Name,
			Score: p.Score,
		})
	}
	return entries
}

func (s *Session) sortedPlayersLocked() []*domain.Player {
	players := make([]*domain.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].JoinSeq < players[j].JoinSeq
	})
	return players
}

func topSlice(entries []domain.LeaderboardEntry, n int) []domain.LeaderboardEntry {
	if len(entries) < n {
		n = len(entries)
	}
	return entries[:n]
}
