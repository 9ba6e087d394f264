package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"quiz-arena-service/internal/app"
	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/engine"
)

// Handler exposes the quiz API over plain HTTP.
type Handler struct {
	questions   *app.QuestionService
	progression *app.ProgressionService
}

func NewHandler(questions *app.QuestionService, progression *app.ProgressionService) *Handler {
	return &Handler{questions: questions, progression: progression}
}

// Register mounts the HTTP routes on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/quiz/questions", h.Questions)
	mux.HandleFunc("/quiz/submit-score", h.SubmitScore)
	mux.HandleFunc("/profile/", h.Profile)
}

// Questions serves a randomly ordered question set filtered by category,
// difficulty and limit.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, "missing category", http.StatusBadRequest)
		return
	}
	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))
	limit := 10
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	questions, err := h.questions.Questions(r.Context(), category, difficulty, limit)
	if errors.Is(err, domain.ErrNoQuestions) {
		writeJSON(w, http.StatusOK, []domain.Question{})
		return
	}
	if err != nil {
		log.Printf("load questions: %v", err)
		http.Error(w, "failed to load questions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

type submitScoreRequest struct {
	UserID         string  `json:"userId"`
	Username       string  `json:"username"`
	Score          int     `json:"score"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	TimeSpent      float64 `json:"timeSpent"`
	Category       string  `json:"category"`
	IsWin          bool    `json:"isWin"`
	IsDuel         bool    `json:"isDuel"`
}

type submitScoreResponse struct {
	Accuracy     int                  `json:"accuracy"`
	Rank         domain.Rank          `json:"rank"`
	Level        int                  `json:"level"`
	XP           int                  `json:"xp"`
	XPToNext     int                  `json:"xpToNextLevel"`
	TotalXP      int                  `json:"totalXp"`
	League       domain.League        `json:"league"`
	LeaguePoints int                  `json:"leaguePoints"`
	Stats        domain.UserStats     `json:"stats"`
	Achievements []domain.Achievement `json:"achievements"`
}

// SubmitScore folds a completed game into the player's profile.
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	result := domain.GameResult{
		Category:       req.Category,
		Score:          req.Score,
		CorrectAnswers: req.CorrectAnswers,
		TotalQuestions: req.TotalQuestions,
		TimeSpent:      req.TimeSpent,
		IsWin:          req.IsWin,
		IsDuel:         req.IsDuel,
	}

	profile, err := h.progression.ApplyGameResult(r.Context(), req.UserID, req.Username, result)
	if errors.Is(err, domain.ErrInvalidGameResult) {
		http.Error(w, "invalid game result", http.StatusBadRequest)
		return
	}
	if errors.Is(err, domain.ErrVersionConflict) {
		// retries exhausted inside the service
		http.Error(w, "profile update conflict, try again", http.StatusConflict)
		return
	}
	if err != nil {
		log.Printf("apply game result: %v", err)
		http.Error(w, "failed to record score", http.StatusInternalServerError)
		return
	}

	accuracy := 0
	if req.TotalQuestions > 0 {
		accuracy = int(float64(req.CorrectAnswers)/float64(req.TotalQuestions)*100 + 0.5)
	}
	writeJSON(w, http.StatusOK, submitScoreResponse{
		Accuracy:     accuracy,
		Rank:         engine.RankForAccuracy(accuracy),
		Level:        profile.Level,
		XP:           profile.XP,
		XPToNext:     profile.XPToNextLevel,
		TotalXP:      profile.TotalXP,
		League:       profile.League,
		LeaguePoints: profile.LeaguePoints,
		Stats:        profile.Stats,
		Achievements: profile.Achievements,
	})
}

// Profile returns the stored profile for /profile/{userId}.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := strings.TrimPrefix(r.URL.Path, "/profile/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}

	profile, err := h.progression.Profile(r.Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("load profile: %v", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
