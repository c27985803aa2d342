package recommendations

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/services/recommend"
)

const hybridAlgorithm = "hybrid_content_collaborative"

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
	Rec *recommend.Service
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger, rec *recommend.Service) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log, Rec: rec}
}

// Recommended обслуживает /mentors/recommended:
// GET — персональные рекомендации авторизованного ученика,
// POST — рекомендации для указанного studentId (для админки и тестов).
func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.recommendedForCurrent(w, r)
	case http.MethodPost:
		h.recommendedForStudent(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) recommendedForCurrent(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.Rec.Recommendations(r.Context(), claims.UserID, limit)
	if err != nil {
		h.Log.Error("get recommendations", zap.Uint("userID", claims.UserID), zap.Error(err))
		apperr.Write(w, err)
		return
	}

	writeRecommendations(w, recs, hybridAlgorithm, nil)
}

type studentRecommendationRequest struct {
	StudentID uint `json:"studentId"`
	Limit     int  `json:"limit"`
}

func (h *Handler) recommendedForStudent(w http.ResponseWriter, r *http.Request) {
	if _, err := authentication.ValidateToken(r, h.Cfg.JWTSecret); err != nil {
		apperr.Write(w, err)
		return
	}

	var req studentRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}
	if req.StudentID == 0 {
		apperr.Write(w, apperr.New(apperr.Validation, "Student ID is required",
			"studentId field is required in request body"))
		return
	}

	recs, err := h.Rec.Recommendations(r.Context(), req.StudentID, req.Limit)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeRecommendations(w, recs, hybridAlgorithm, nil)
}

// RecommendedSearch обслуживает /mentors/recommended/search: подбор по
// критериям без обязательного профиля ученика.
func (h *Handler) RecommendedSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()

	criteria := recommend.Criteria{}
	if subjects := q.Get("subjects"); subjects != "" {
		criteria.Subjects = strings.Split(subjects, ",")
	}
	if v := q.Get("maxBudget"); v != "" {
		criteria.MaxBudget, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("minRating"); v != "" {
		criteria.MinRating, _ = strconv.ParseFloat(v, 64)
	}
	criteria.Limit, _ = strconv.Atoi(q.Get("limit"))

	recs, err := h.Rec.RecommendationsByCriteria(r.Context(), criteria)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	writeRecommendations(w, recs, "criteria_based", map[string]interface{}{
		"subjects":  criteria.Subjects,
		"maxBudget": criteria.MaxBudget,
		"minRating": criteria.MinRating,
	})
}

func writeRecommendations(w http.ResponseWriter, recs []recommend.Recommendation, algorithm string, searchCriteria map[string]interface{}) {
	response := map[string]interface{}{
		"recommendations": recs,
		"totalCount":      len(recs),
		"algorithm":       algorithm,
	}
	if searchCriteria != nil {
		response["searchCriteria"] = searchCriteria
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
