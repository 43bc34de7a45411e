package app

import "live-trivia-service/internal/domain"

// Event names pushed through the Broadcaster. Host-prefixed events carry
// privileged payloads and must only ever be addressed to the host connection.
const (
	EventGameCreated  = "host:gameCreated"
	EventHostQuestion = "host:question"
	EventRevealReady  = "host:revealReady"

	EventLobbyUpdate    = "lobby:update"
	EventGameStarted    = "game:started"
	EventPlayerQuestion = "player:question"
	EventTimeUp         = "question:timeUp"
	EventReveal         = "question:reveal"
	EventLeaderboard    = "leaderboard:update"
	EventPlayerJoined   = "player:joined"
	EventAnswerResult   = "player:answerResult"
	EventGameFinal      = "game:final"
	EventGameEnded      = "game:ended"
)

// GameCreatedPayload confirms room creation to the host.
type GameCreatedPayload struct {
	Pin           string `json:"pin"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

// LobbyUpdatePayload carries the current member name list, in join order.
type LobbyUpdatePayload struct {
	Players []string `json:"players"`
}

// GameStartedPayload announces the host pressed start.
type GameStartedPayload struct {
	Title string `json:"title"`
}

// HostQuestionPayload is the privileged question view: it includes the
// correct choice index and must never be sent to players before reveal.
type HostQuestionPayload struct {
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	TimeLimitSec int      `json:"timeLimitSec"`
}

// PlayerQuestionPayload is the answer-buttons view of the current question.
type PlayerQuestionPayload struct {
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	Choices      []string `json:"choices"`
	TimeLimitSec int      `json:"timeLimitSec"`
}

// RevealReadyPayload signals the host that the question timer elapsed.
type RevealReadyPayload struct {
	Pin string `json:"pin"`
}

// RevealPayload discloses the correct choice to the room.
type RevealPayload struct {
	CorrectIndex int `json:"correctIndex"`
}

// LeaderboardPayload carries the full standings plus a short top slice.
type LeaderboardPayload struct {
	Full []domain.LeaderboardEntry `json:"full"`
	Top  []domain.LeaderboardEntry `json:"top"`
}

// PlayerJoinedPayload is the private join receipt.
type PlayerJoinedPayload struct {
	Pin   string `json:"pin"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// FinalPayload carries the end-of-game standings and podium.
type FinalPayload struct {
	Podium      []domain.LeaderboardEntry `json:"podium"`
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// GameEndedPayload tells remaining members the room is gone.
type GameEndedPayload struct {
	Message string `json:"message"`
}
