package domain

// Question is one multiple-choice question with a single correct choice.
type Question struct {
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	TimeLimitSec int      `json:"timeLimitSec"`
}

// Quiz is an ordered, immutable question set.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// QuizSummary is the catalog listing view of a quiz.
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"questionCount"`
}

// Player is one connected participant of a game room.
type Player struct {
	ID     string
	Name   string
	Score  int
	Streak int
	// JoinSeq orders players by arrival; it is the leaderboard tie-break.
	JoinSeq int
}

// LeaderboardEntry is a ranked scoreboard row.
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// AnswerResult summarizes a scored submission for the submitting player only.
type AnswerResult struct {
	Correct bool `json:"correct"`
	Gained  int  `json:"gained"`
	Total   int  `json:"total"`
}
