package students

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/models/profiles"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

// Profile — онбординг и профиль ученика: POST создаёт, GET читает,
// PUT обновляет. Профиль принадлежит только своему аккаунту.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if claims.Role != "student" {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Insufficient permissions",
			"Only students can manage a student profile"))
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.create(w, r, claims.UserID)
	case http.MethodGet:
		h.get(w, r, claims.UserID)
	case http.MethodPut:
		h.update(w, r, claims.UserID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Student
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	if profile.FullName == "" || profile.EducationLevel == "" || len(profile.Subjects) == 0 {
		apperr.Write(w, apperr.New(apperr.Validation, "Missing required fields",
			"fullName, educationLevel and subjects are required"))
		return
	}

	var existing profiles.Student
	if err := h.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		apperr.Write(w, apperr.New(apperr.Conflict, "Student profile already exists"))
		return
	}

	profile.ID = 0
	profile.UserID = userID
	if err := h.DB.Create(&profile).Error; err != nil {
		h.Log.Error("create student profile", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(profile)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Student
	if err := h.DB.Preload("Skills").Preload("User").
		Where("user_id = ?", userID).First(&profile).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Student profile not found"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, userID uint) {
	var profile profiles.Student
	if err := h.DB.Preload("Skills").
		Where("user_id = ?", userID).First(&profile).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Student profile not found"))
		return
	}

	var patch profiles.Student
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	// Навыки заменяются целиком
	if patch.Skills != nil {
		if err := h.DB.Where("student_id = ?", profile.ID).
			Delete(&profiles.StudentSkill{}).Error; err != nil {
			apperr.Write(w, err)
			return
		}
		for i := range patch.Skills {
			patch.Skills[i].ID = 0
			patch.Skills[i].StudentID = profile.ID
		}
		profile.Skills = patch.Skills
	}

	if patch.FullName != "" {
		profile.FullName = patch.FullName
	}
	if patch.Age != 0 {
		profile.Age = patch.Age
	}
	if patch.ContactNumber != "" {
		profile.ContactNumber = patch.ContactNumber
	}
	if patch.School != "" {
		profile.School = patch.School
	}
	if patch.EducationLevel != "" {
		profile.EducationLevel = patch.EducationLevel
	}
	if patch.Subjects != nil {
		profile.Subjects = patch.Subjects
	}
	if patch.PreferredLearningStyle != "" {
		profile.PreferredLearningStyle = patch.PreferredLearningStyle
	}
	if patch.Accommodations != "" {
		profile.Accommodations = patch.Accommodations
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		h.Log.Error("update student profile", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}
