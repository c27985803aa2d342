package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/models/bookings"
	"eduvibe-backend/models/profiles"
)

// Фиксированная длительность сессии
const sessionDurationMinutes = 120

type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log *zap.Logger
}

func NewHandler(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{DB: db, Cfg: cfg, Log: log}
}

type createBookingRequest struct {
	MentorID        uint   `json:"mentorId"`
	SessionDateTime string `json:"sessionDateTime"`
	PaymentProofURL string `json:"paymentProofUrl"`
}

// conflictWindow — окно занятости наставника вокруг начала сессии:
// час до и два часа после.
func conflictWindow(sessionTime time.Time) (time.Time, time.Time) {
	return sessionTime.Add(-time.Hour), sessionTime.Add(2 * time.Hour)
}

// Create — создание брони; POST /bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	if req.MentorID == 0 || req.SessionDateTime == "" || req.PaymentProofURL == "" {
		apperr.Write(w, apperr.New(apperr.Validation, "Missing required fields",
			"mentorId, sessionDateTime, and paymentProofUrl are required"))
		return
	}

	var student profiles.Student
	if err := h.DB.Where("user_id = ?", claims.UserID).First(&student).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Student profile not found",
			"Complete your student onboarding first"))
		return
	}

	var mentor profiles.Mentor
	err = h.DB.First(&mentor, req.MentorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && (!mentor.IsAvailable || !mentor.IsVerified)) {
		apperr.Write(w, apperr.New(apperr.Validation, "Mentor not available",
			"Mentor not found or not available for booking"))
		return
	}
	if err != nil {
		apperr.Write(w, err)
		return
	}

	sessionTime, err := time.Parse(time.RFC3339, req.SessionDateTime)
	if err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid session time",
			"sessionDateTime must be an RFC 3339 timestamp"))
		return
	}
	if !sessionTime.After(time.Now()) {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid session time",
			"Session must be scheduled for a future date/time"))
		return
	}

	// Проверка пересечения с существующими сессиями наставника
	windowStart, windowEnd := conflictWindow(sessionTime)
	var existing bookings.Booking
	err = h.DB.
		Where("mentor_id = ?", mentor.ID).
		Where("session_date_time BETWEEN ? AND ?", windowStart, windowEnd).
		Where("status IN ?", []string{bookings.StatusPending, bookings.StatusConfirmed, bookings.StatusInProgress}).
		First(&existing).Error
	if err == nil {
		apperr.Write(w, apperr.New(apperr.Conflict, "Scheduling conflict",
			"Mentor is not available at the selected time"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Write(w, err)
		return
	}

	booking := bookings.Booking{
		StudentID:       student.ID,
		MentorID:        mentor.ID,
		SessionDateTime: sessionTime,
		DurationMinutes: sessionDurationMinutes,
		PaymentProofURL: req.PaymentProofURL,
		Status:          bookings.StatusPending,
		TotalAmount:     mentor.RatePerSession,
		Currency:        mentor.Currency,
	}
	if err := h.DB.Create(&booking).Error; err != nil {
		h.Log.Error("create booking", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	// Дотягиваем связанные записи только для созданной брони
	if err := h.DB.
		Preload("Student").Preload("Student.User").
		Preload("Mentor").Preload("Mentor.User").
		First(&booking, booking.ID).Error; err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// ByID обслуживает /bookings/{id}: GET — детали, DELETE — отмена.
func (h *Handler) ByID(w http.ResponseWriter, r *http.Request) {
	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/bookings/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid booking ID"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, claims, uint(id))
	case http.MethodDelete:
		h.cancel(w, r, claims, uint(id))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// hasAccess: бронь видят только её ученик и её наставник.
func (h *Handler) hasAccess(claims *authentication.Claims, booking *bookings.Booking) bool {
	var student profiles.Student
	if err := h.DB.Where("user_id = ?", claims.UserID).First(&student).Error; err == nil {
		if booking.StudentID == student.ID {
			return true
		}
	}

	var mentor profiles.Mentor
	if err := h.DB.Where("user_id = ?", claims.UserID).First(&mentor).Error; err == nil {
		if booking.MentorID == mentor.ID {
			return true
		}
	}

	return false
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request, claims *authentication.Claims, id uint) {
	var booking bookings.Booking
	if err := h.DB.
		Preload("Student").Preload("Student.User").
		Preload("Mentor").Preload("Mentor.User").
		First(&booking, id).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Booking not found",
			"Booking with this ID does not exist"))
		return
	}

	if !h.hasAccess(claims, &booking) {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Access denied",
			"You do not have permission to view this booking"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request, claims *authentication.Claims, id uint) {
	var booking bookings.Booking
	if err := h.DB.First(&booking, id).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Booking not found",
			"Booking with this ID does not exist"))
		return
	}

	if !h.hasAccess(claims, &booking) {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Access denied",
			"You do not have permission to cancel this booking"))
		return
	}

	if !booking.CanCancel() {
		apperr.Write(w, apperr.New(apperr.Validation, "Cannot cancel booking",
			"Booking is already completed or cancelled"))
		return
	}

	var req cancelRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "No reason provided"
	}

	userID := claims.UserID
	booking.Status = bookings.StatusCancelled
	booking.CancelledBy = &userID
	booking.CancellationReason = req.Reason

	if err := h.DB.Save(&booking).Error; err != nil {
		h.Log.Error("cancel booking", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StudentBookings — список броней ученика; GET /students/{id}/bookings.
func (h *Handler) StudentBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/students/")
	idStr := strings.TrimSuffix(path, "/bookings")
	id, err := strconv.Atoi(idStr)
	if err != nil || idStr == path {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid student ID"))
		return
	}

	// Ученик видит только собственные брони
	var student profiles.Student
	if err := h.DB.First(&student, id).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Student profile not found"))
		return
	}
	if student.UserID != claims.UserID {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Access denied",
			"You do not have permission to view these bookings"))
		return
	}

	query := h.DB.
		Preload("Mentor").Preload("Mentor.User").
		Where("student_id = ?", student.ID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var list []bookings.Booking
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateSessionStatus — смена статуса сессии наставником;
// PATCH /sessions/{id}/status. Подтверждение генерирует ссылку на встречу.
func (h *Handler) UpdateSessionStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if claims.Role != "mentor" {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Insufficient permissions",
			"Only mentors can update session status"))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	idStr := strings.TrimSuffix(path, "/status")
	id, err := strconv.Atoi(idStr)
	if err != nil || idStr == path {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid session ID"))
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid input"))
		return
	}

	if req.Status != bookings.StatusConfirmed &&
		req.Status != bookings.StatusInProgress &&
		req.Status != bookings.StatusCompleted {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid status",
			"Status must be confirmed, in-progress, or completed"))
		return
	}

	var booking bookings.Booking
	if err := h.DB.First(&booking, id).Error; err != nil {
		apperr.Write(w, apperr.New(apperr.NotFound, "Booking not found",
			"Booking with this ID does not exist"))
		return
	}

	var mentor profiles.Mentor
	if err := h.DB.Where("user_id = ?", claims.UserID).First(&mentor).Error; err != nil ||
		booking.MentorID != mentor.ID {
		apperr.Write(w, apperr.New(apperr.Forbidden, "Access denied",
			"You do not have permission to update this session"))
		return
	}

	booking.Status = req.Status
	if req.Status == bookings.StatusConfirmed && booking.MeetingLink == "" {
		booking.MeetingLink = "https://meet.eduvibe.app/session/" + uuid.NewString()
	}

	if err := h.DB.Save(&booking).Error; err != nil {
		h.Log.Error("update session status", zap.Error(err))
		apperr.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":              booking.ID,
		"status":          booking.Status,
		"sessionDateTime": booking.SessionDateTime,
		"meetingLink":     booking.MeetingLink,
		"updatedAt":       booking.UpdatedAt,
	})
}
