package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"live-trivia-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
}

// GameService owns the host-driven room lifecycle. Host commands drive the
// per-room state machine; derived views fan out through the Broadcaster. All
// failures are either reported once to the originator or absorbed as no-ops:
// wrong-phase, duplicate, and non-host submissions are expected races, not
// errors.
type GameService struct {
	registry SessionRegistry
	quizzes  QuizRepository
	gateway  Broadcaster
	now      func() time.Time
}

func NewGameService(registry SessionRegistry, quizzes QuizRepository, gateway Broadcaster) *GameService {
	return NewGameServiceWithClock(registry, quizzes, gateway, time.Now)
}

// NewGameServiceWithClock is test-only for deterministic elapsed times.
func NewGameServiceWithClock(registry SessionRegistry, quizzes QuizRepository, gateway Broadcaster, now func() time.Time) *GameService {
	return &GameService{registry: registry, quizzes: quizzes, gateway: gateway, now: now}
}

// CreateGame looks up the quiz, allocates a fresh PIN, and opens a lobby with
// the requesting connection as host. The host joins the room broadcast group
// immediately so it sees lobby updates alongside the players.
func (g *GameService) CreateGame(ctx context.Context, quizID, hostID string) error {
	quiz, err := g.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}

	var session *Session
	for {
		pin := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		session = NewSessionWithClock(pin, hostID, quiz, g.now)
		if g.registry.Reserve(pin, session) {
			break
		}
	}

	g.gateway.JoinRoom(hostID, session.pin)
	g.gateway.ToHost(hostID, EventGameCreated, GameCreatedPayload{
		Pin:           session.pin,
		Title:         quiz.Title,
		QuestionCount: len(quiz.Questions),
	})
	g.gateway.ToRoom(session.pin, EventLobbyUpdate, LobbyUpdatePayload{Players: []string{}})
	return nil
}

// StartGame moves the room out of the lobby. Host-only; a no-op otherwise.
func (g *GameService) StartGame(pin, connID string) {
	session, ok := g.registry.Get(pin)
	if !ok || session.hostID != connID {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseLobby {
		return
	}
	session.phase = PhaseInGame
	g.gateway.ToRoom(pin, EventGameStarted, GameStartedPayload{Title: session.quiz.Title})
}

// StartQuestion advances to the next question, or to final results when the
// quiz is exhausted. Host-only. The host receives the privileged payload with
// the correct index; the room receives the answer-buttons view without it.
func (g *GameService) StartQuestion(pin, connID string) {
	session, ok := g.registry.Get(pin)
	if !ok || session.hostID != connID {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.currentIndex++

	if session.currentIndex >= len(session.quiz.Questions) {
		session.cancelTimerLocked()
		session.phase = PhaseFinal
		board := session.leaderboardLocked()
		g.gateway.ToRoom(pin, EventGameFinal, FinalPayload{
			Podium:      topSlice(board, 3),
			Leaderboard: board,
		})
		g.registry.Remove(pin)
		return
	}

	q := session.quiz.Questions[session.currentIndex]
	session.phase = PhaseQuestion
	session.questionStart = g.now()
	session.answered = make(map[string]struct{})

	total := len(session.quiz.Questions)
	g.gateway.ToHost(session.hostID, EventHostQuestion, HostQuestionPayload{
		Index:        session.currentIndex + 1,
		Total:        total,
		Text:         q.Text,
		Choices:      q.Choices,
		CorrectIndex: q.CorrectIndex,
		TimeLimitSec: q.TimeLimitSec,
	})
	g.gateway.ToRoom(pin, EventPlayerQuestion, PlayerQuestionPayload{
		Index:        session.currentIndex + 1,
		Total:        total,
		Choices:      q.Choices,
		TimeLimitSec: q.TimeLimitSec,
	})

	// Re-arm the reveal timer; cancelling first defends against rapid
	// double-clicks arming two timers for one question.
	session.cancelTimerLocked()
	gen := session.timerGen
	session.revealTimer = time.AfterFunc(time.Duration(q.TimeLimitSec)*time.Second, func() {
		g.revealTimerFired(pin, session, gen)
	})
}

// revealTimerFired runs when a question's time fully elapses. A firing whose
// session was replaced or destroyed, whose generation was superseded, or whose
// room already left the question phase must not touch anything.
func (g *GameService) revealTimerFired(pin string, session *Session, gen uint64) {
	current, ok := g.registry.Get(pin)
	if !ok || current != session {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.timerGen != gen || session.phase != PhaseQuestion {
		return
	}
	session.revealTimer = nil
	g.gateway.ToRoom(pin, EventTimeUp, struct{}{})
	g.gateway.ToHost(session.hostID, EventRevealReady, RevealReadyPayload{Pin: pin})
}

// Reveal closes the current question and shows the correct choice plus the
// standings. Host-only, and only valid while a question is open.
func (g *GameService) Reveal(pin, connID string) {
	session, ok := g.registry.Get(pin)
	if !ok || session.hostID != connID {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseQuestion {
		return
	}

	session.cancelTimerLocked()
	session.phase = PhaseReveal

	q := session.quiz.Questions[session.currentIndex]
	g.gateway.ToRoom(pin, EventReveal, RevealPayload{CorrectIndex: q.CorrectIndex})

	board := session.leaderboardLocked()
	g.gateway.ToRoom(pin, EventLeaderboard, LeaderboardPayload{
		Full: board,
		Top:  topSlice(board, 5),
	})
}

// Join adds a player to a lobby under a sanitized, room-unique name and
// broadcasts the refreshed member list. The joiner additionally gets a private
// receipt carrying the quiz title.
func (g *GameService) Join(pin, connID, rawName string) error {
	session, ok := g.registry.Get(strings.TrimSpace(pin))
	if !ok {
		return domain.ErrRoomNotFound
	}

	name := sanitizeName(rawName)
	if name == "" {
		return domain.ErrInvalidName
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for _, p := range session.players {
		if strings.EqualFold(p.Name, name) {
			return domain.ErrNameTaken
		}
	}

	session.joinSeq++
	session.players[connID] = &domain.Player{
		ID:      connID,
		Name:    name,
		JoinSeq: session.joinSeq,
	}

	g.gateway.JoinRoom(connID, session.pin)
	g.gateway.ToRoom(session.pin, EventLobbyUpdate, LobbyUpdatePayload{Players: session.playerNamesLocked()})
	g.gateway.ToPlayer(connID, EventPlayerJoined, PlayerJoinedPayload{
		Pin:   session.pin,
		Name:  name,
		Title: session.quiz.Title,
	})
	return nil
}

// Answer scores the first submission from a player for the open question and
// replies privately. Late, duplicate, and unrecognized submissions fall
// through silently: they are normal races, not failures.
func (g *GameService) Answer(pin, connID string, choiceIndex int) {
	session, ok := g.registry.Get(strings.TrimSpace(pin))
	if !ok {
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseQuestion {
		return
	}
	if _, dup := session.answered[connID]; dup {
		return
	}
	session.answered[connID] = struct{}{}

	player, ok := session.players[connID]
	if !ok {
		return
	}

	q := session.quiz.Questions[session.currentIndex]
	elapsed := g.now().Sub(session.questionStart)
	correct := choiceIndex == q.CorrectIndex
	points := Points(correct, elapsed, q.TimeLimitSec)

	if correct {
		player.Streak++
		player.Score += points + StreakBonus(player.Streak)
	} else {
		player.Streak = 0
	}

	g.gateway.ToPlayer(connID, EventAnswerResult, domain.AnswerResult{
		Correct: correct,
		Gained:  points,
		Total:   player.Score,
	})
}

// Disconnect tears down everything tied to a departed connection. A host
// leaving destroys its room and notifies remaining members; a player leaving
// only shrinks the member list.
func (g *GameService) Disconnect(connID string) {
	for _, session := range g.registry.List() {
		session.mu.Lock()
		if session.hostID == connID {
			session.cancelTimerLocked()
			session.phase = PhaseFinal
			g.gateway.ToRoom(session.pin, EventGameEnded, GameEndedPayload{Message: "Host disconnected."})
			g.registry.Remove(session.pin)
			session.mu.Unlock()
			continue
		}
		if _, ok := session.players[connID]; ok {
			delete(session.players, connID)
			g.gateway.ToRoom(session.pin, EventLobbyUpdate, LobbyUpdatePayload{Players: session.playerNamesLocked()})
		}
		session.mu.Unlock()
	}
}

// ListQuizzes exposes the catalog listing for the REST surface.
func (g *GameService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return g.quizzes.ListQuizzes(ctx)
}
