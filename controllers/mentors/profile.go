package mentors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/models/profiles"
	"eduvibe-backend/services/recommend"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
	Rec *recommend.Service
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger, rec *recommend.Service) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log, Rec: rec}
}

// Profile — создание и редактирование профиля наставника. Доступно только
// пользователям с ролью mentor; верификацию выставляет отдельный процесс.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if claims.Role != "mentor" {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Insufficient permissions",
			"Only mentors can manage a mentor profile"))
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.createProfile(w, r, claims.UserID)
	case http.MethodGet:
		h.getProfile(w, r, claims.UserID)
	case http.MethodPut:
		h.updateProfile(w, r, claims.UserID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Mentor
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	if profile.FullName == "" || profile.ProfessionalRole == "" || len(profile.Subjects) == 0 {
		apperr.Write(w, apperr.New(apperr.Validation, "Missing required fields",
			"fullName, professionalRole and subjects are required"))
		return
	}

	var existing profiles.Mentor
	if err := h.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		apperr.Write(w, apperr.New(apperr.Conflict, "Mentor profile already exists"))
		return
	}

	profile.ID = 0
	profile.UserID = userID
	profile.IsVerified = false // верификация — внешний процесс
	if err := h.DB.Create(&profile).Error; err != nil {
		h.Log.Error("create mentor profile", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profile)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Mentor
	if err := h.DB.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Mentor profile not found"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Mentor
	if err := h.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Mentor profile not found"))
		return
	}

	// Поля статуса из тела запроса не принимаются
	id := profile.ID
	verified := profile.IsVerified
	rating := profile.AverageRating
	reviews := profile.TotalReviews
	sessions := profile.TotalSessions
	earnings := profile.TotalEarnings

	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	profile.ID = id
	profile.UserID = userID
	profile.IsVerified = verified
	profile.AverageRating = rating
	profile.TotalReviews = reviews
	profile.TotalSessions = sessions
	profile.TotalEarnings = earnings

	if err := h.DB.Save(&profile).Error; err != nil {
		h.Log.Error("update mentor profile", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
