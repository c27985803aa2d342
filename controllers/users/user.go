package users

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
	"eduvibe-backend/models/users"
)

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

// Me — профиль текущего пользователя: GET и частичное обновление PATCH.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var user users.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "User not found", "User account not found"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)

	case http.MethodPatch:
		var patch struct {
			Name      *string `json:"name"`
			AvatarURL *string `json:"avatarUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
			return
		}

		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				apperr.Write(w, apperr.New(apperr.Validation, "Invalid name",
					"Name must be a non-empty string"))
				return
			}
			user.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.AvatarURL != nil {
			user.AvatarURL = *patch.AvatarURL
		}

		if err := h.DB.Save(&user).Error; err != nil {
			h.Log.Error("update user", zap.Error(err))
			apperr.Write(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Public — публичный профиль пользователя по id, без приватных полей.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/users/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid user ID"))
		return
	}

	var user users.User
	if err := h.DB.First(&user, id).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "User not found"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":        user.ID,
		"name":      user.Name,
		"role":      user.Role,
		"avatarUrl": user.AvatarURL,
	})
}
