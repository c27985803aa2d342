package authentication

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/models/users"
)

type GoogleHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Log   *zap.Logger
	oauth *oauth2.Config
	store *sessions.CookieStore
}

func NewGoogleHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *GoogleHandler {
	store := sessions.NewCookieStore(cfg.SessionSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 8,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &GoogleHandler{
		DB:  db,
		Cfg: cfg,
		Log: log,
		oauth: &oauth2.Config{
			RedirectURL:  cfg.GoogleRedirectURL,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		store: store,
	}
}

// Login initiates the Google OAuth flow.
func (h *GoogleHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := "google"
	url := h.oauth.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback обменивает код на токен, подтягивает профиль Google и выдаёт
// наш JWT; пользователь создаётся при первом входе.
func (h *GoogleHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("state") != "google" {
		h.Log.Warn("invalid oauth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.Log.Error("exchange code for token", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		h.Log.Error("fetch user info", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		h.Log.Error("read user info", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil || info.ID == "" || info.Email == "" {
		h.Log.Error("parse user info", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	// Ищем пользователя по Google ID, при первом входе создаём как студента
	var user users.User
	err = h.DB.Where("google_id = ? AND provider = ?", info.ID, "google").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = users.User{
			Name:      info.Name,
			Email:     info.Email,
			Password:  "-",
			Role:      "student",
			AvatarURL: info.Picture,
			Provider:  "google",
			GoogleID:  info.ID,
			IsActive:  true,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			h.Log.Error("create google user", zap.Error(err))
			apperr.Write(w, err)
			return
		}
	} else if err != nil {
		apperr.Write(w, err)
		return
	}

	session, _ := h.store.Get(r, "session-name")
	session.Values["userID"] = user.ID
	if err := session.Save(r, w); err != nil {
		h.Log.Warn("save session", zap.Error(err))
	}

	jwtToken, err := GenerateToken(&user, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": jwtToken,
	})
}
