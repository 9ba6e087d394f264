package domain

import "time"

// Difficulty classifies a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Grade buckets a single answer by correctness and speed.
type Grade string

const (
	GradePerfect Grade = "perfect"
	GradeGreat   Grade = "great"
	GradeGood    Grade = "good"
	GradeOK      Grade = "ok"
	GradeMiss    Grade = "miss"
)

// Rank is the letter grade summarizing one game's accuracy.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// League tiers, ordered by point floor.
type League string

const (
	LeagueBronze   League = "bronze"
	LeagueSilver   League = "silver"
	LeagueGold     League = "gold"
	LeaguePlatinum League = "platinum"
	LeagueDiamond  League = "diamond"
	LeagueLegend   League = "legend"
)

// MatchMode selects the matchmaking queue a player waits in.
type MatchMode string

const (
	ModeRandom MatchMode = "random"
	ModeRanked MatchMode = "ranked"
)

// AnswerEvent is the scoring signal for a single question, produced by the
// game client and consumed once by the scorer.
type AnswerEvent struct {
	IsCorrect            bool       `json:"isCorrect"`
	Difficulty           Difficulty `json:"difficulty"`
	TimeRemainingSeconds float64    `json:"timeRemainingSeconds"`
	StreakBefore         int        `json:"streakBefore"`
}

// ScoreResult is the immutable outcome of scoring one answer.
type ScoreResult struct {
	BasePoints  int    `json:"basePoints"`
	TimeBonus   int    `json:"timeBonus"`
	StreakBonus int    `json:"streakBonus"`
	TotalPoints int    `json:"totalPoints"`
	XPGained    int    `json:"xpGained"`
	Grade       Grade  `json:"grade"`
	Message     string `json:"message"`
}

// GameSummary aggregates every ScoreResult of one completed game.
type GameSummary struct {
	TotalScore         int     `json:"totalScore"`
	CorrectAnswers     int     `json:"correctAnswers"`
	TotalQuestions     int     `json:"totalQuestions"`
	Accuracy           int     `json:"accuracy"`
	AverageTimeSeconds float64 `json:"averageTimeSeconds"`
	BestStreak         int     `json:"bestStreak"`
	XPEarned           int     `json:"xpEarned"`
	CoinsEarned        int     `json:"coinsEarned"`
	Rank               Rank    `json:"rank"`
}

// GameResult is the per-game payload folded into a durable profile.
type GameResult struct {
	Category       string  `json:"category"`
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	TimeSpent      float64 `json:"timeSpent"`
	IsWin          bool    `json:"isWin"`
	IsDuel         bool    `json:"isDuel"`
}

// CategoryStats is the per-category bucket inside UserStats.
type CategoryStats struct {
	Played    int `json:"played"`
	Questions int `json:"questions"`
	Correct   int `json:"correct"`
	Accuracy  int `json:"accuracy"`
	BestScore int `json:"bestScore"`
}

// UserStats holds the running totals of a profile. Accuracy and win rate are
// always recomputed from their inputs, never written independently.
type UserStats struct {
	GamesPlayed      int                      `json:"gamesPlayed"`
	Wins             int                      `json:"wins"`
	Losses           int                      `json:"losses"`
	WinRate          int                      `json:"winRate"`
	TotalQuestions   int                      `json:"totalQuestions"`
	CorrectAnswers   int                      `json:"correctAnswers"`
	Accuracy         int                      `json:"accuracy"`
	BestStreak       int                      `json:"bestStreak"`
	CurrentStreak    int                      `json:"currentStreak"`
	PlayTimeSeconds  float64                  `json:"playTimeSeconds"`
	FavoriteCategory string                   `json:"favoriteCategory"`
	Categories       map[string]CategoryStats `json:"categories"`
}

// Achievement tracks one catalog entry's per-user progress. Unlocked is a
// one-way transition and Progress never decreases for a given ID.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Target      int        `json:"target"`
	Progress    int        `json:"progress"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// UserProfile is the durable per-player record.
// Invariants: 0 <= XP < XPToNextLevel; Level and TotalXP never decrease;
// LeaguePoints is floored at 0.
type UserProfile struct {
	ID            string        `json:"id"`
	Username      string        `json:"username"`
	Level         int           `json:"level"`
	XP            int           `json:"xp"`
	XPToNextLevel int           `json:"xpToNextLevel"`
	TotalXP       int           `json:"totalXp"`
	League        League        `json:"league"`
	LeaguePoints  int           `json:"leaguePoints"`
	Stats         UserStats     `json:"stats"`
	Achievements  []Achievement `json:"achievements"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	// Version backs optimistic-concurrency writes; stores bump it on every
	// successful save and reject writes carrying a stale value.
	Version int64 `json:"-"`
}

// MatchmakingEntry is a waiting player; it lives only for the queue stay.
type MatchmakingEntry struct {
	UserID   string    `json:"userId"`
	Mode     MatchMode `json:"mode"`
	Category string    `json:"category,omitempty"`
	Rating   int       `json:"rating"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Option is a possible answer for a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []Option   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Points        int        `json:"points"` // defaults per difficulty if zero
	Explanation   string     `json:"explanation,omitempty"`
}
