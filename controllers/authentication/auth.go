package authentication

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/models/users"
)

type Claims struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	UserID uint   `json:"userId"`
	jwt.StandardClaims
}

// GenerateToken выпускает JWT на 24 часа.
func GenerateToken(user *users.User, secret []byte) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken разбирает заголовок Authorization и проверяет подпись.
func ValidateToken(r *http.Request, secret []byte) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, apperr.New(apperr.Auth, "Authentication required", "Access token is required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.New(apperr.Auth, "Invalid token", "Access token is invalid or expired")
	}

	return claims, nil
}

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register — регистрация с паролем и выбором роли.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		apperr.Write(w, apperr.New(apperr.Validation, "Missing required fields",
			"name, email and password are required"))
		return
	}

	// Валидация роли
	if req.Role != "student" && req.Role != "mentor" {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid role",
			"Allowed roles: student, mentor"))
		return
	}

	// Проверка на существование пользователя с таким email
	var existing users.User
	if err := h.DB.Where("email = ? AND provider = ?", req.Email, "local").
		First(&existing).Error; err == nil {
		apperr.Write(w, apperr.New(apperr.Conflict, "Email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	user := users.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		Provider: "local",
		IsActive: true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		h.Log.Error("create user", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	tokenString, err := GenerateToken(&user, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": tokenString,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login — вход с паролем и выдача JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	var user users.User
	if err := h.DB.Where("email = ? AND provider = ?", req.Email, "local").
		First(&user).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.Auth, "Invalid credentials"))
		return
	}

	if !user.IsActive {
		apperr.Write(w, apperr.New(apperr.Auth, "User not found or inactive",
			"User account not found or has been deactivated"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		apperr.Write(w, apperr.New(apperr.Auth, "Invalid credentials"))
		return
	}

	tokenString, err := GenerateToken(&user, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": tokenString,
	})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword меняет пароль авторизованного пользователя.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}
	if req.NewPassword == "" {
		apperr.Write(w, apperr.New(apperr.Validation, "New password is required"))
		return
	}

	var user users.User
	if err := h.DB.First(&user, claims.UserID).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "User not found"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		apperr.Write(w, apperr.New(apperr.Auth, "Invalid credentials"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	user.Password = string(hashed)
	if err := h.DB.Save(&user).Error; err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Password updated successfully"})
}
