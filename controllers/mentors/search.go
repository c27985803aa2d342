package mentors

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"eduvibe-backend/apperr"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/models/profiles"
	"eduvibe-backend/services/recommend"
)

// Search — поиск наставников с фильтрами; GET /mentors/search.
// Авторизация необязательна: с профилем ученика и sort=relevance выдача
// персонализируется.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()

	filters := recommend.SearchFilters{
		Language: q.Get("language"),
		Sort:     q.Get("sort"),
	}
	if subjects := q.Get("subjects"); subjects != "" {
		filters.Subjects = strings.Split(subjects, ",")
	}
	if v := q.Get("maxPrice"); v != "" {
		filters.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("minRating"); v != "" {
		filters.MinRating, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("experienceYears"); v != "" {
		filters.ExperienceYears, _ = strconv.Atoi(v)
	}
	if v := q.Get("sessionDuration"); v != "" {
		filters.SessionDuration, _ = strconv.Atoi(v)
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))

	// Профиль ученика для персонализации, если запрос авторизован
	var student *profiles.Student
	if claims, err := authentication.ValidateToken(r, h.Cfg.JWTSecret); err == nil {
		var sp profiles.Student
		if err := h.DB.Preload("Skills").
			Where("user_id = ?", claims.UserID).First(&sp).Error; err == nil {
			student = &sp
		}
	}

	result, err := h.Rec.SearchMentors(r.Context(), filters, student)
	if err != nil {
		apperr.Write(w, err)
		return
	}

	data := make([]map[string]interface{}, 0, len(result.Mentors))
	for _, item := range result.Mentors {
		data = append(data, map[string]interface{}{
			"id":               item.Mentor.ID,
			"userId":           item.Mentor.UserID,
			"fullName":         item.Mentor.FullName,
			"bio":              item.Mentor.Bio,
			"professionalRole": item.Mentor.ProfessionalRole,
			"subjects":         item.Mentor.Subjects,
			"experienceYears":  item.Mentor.ExperienceYears,
			"ratePerSession":   item.Mentor.RatePerSession,
			"currency":         item.Mentor.Currency,
			"averageRating":    item.Mentor.AverageRating,
			"totalReviews":     item.Mentor.TotalReviews,
			"languages":        item.Mentor.Languages,
			"specializations":  item.Mentor.Specializations,
			"availableHours":   item.Mentor.AvailableHours,
			"timezone":         item.Mentor.Timezone,
			"matchScore":       item.Score,
			"matchReasons":     item.MatchReasons,
			"user":             item.Mentor.User,
		})
	}

	totalPages := int(math.Ceil(float64(result.Total) / float64(result.Limit)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": data,
		"pagination": map[string]interface{}{
			"page":       result.Page,
			"limit":      result.Limit,
			"total":      result.Total,
			"totalPages": totalPages,
		},
		"filters": map[string]interface{}{
			"appliedFilters": filters,
			"isPersonalized": result.Personalized,
		},
	})
}

// ByID — публичная карточка наставника; GET /mentors/{id}.
func (h *Handler) ByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/mentors/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid mentor ID"))
		return
	}

	var mentor profiles.Mentor
	if err := h.DB.Preload("User").First(&mentor, id).Error; err != nil || !mentor.IsAvailable {
		apperr.Write(w, apperr.New(apperr.NotFound, "Mentor not found",
			"Mentor not found or not available"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":                     mentor.ID,
		"user":                   mentor.User,
		"fullName":               mentor.FullName,
		"age":                    mentor.Age,
		"bio":                    mentor.Bio,
		"professionalRole":       mentor.ProfessionalRole,
		"subjects":               mentor.Subjects,
		"experienceYears":        mentor.ExperienceYears,
		"preferredStudentLevels": mentor.PreferredStudentLevels,
		"linkedinUrl":            mentor.LinkedinURL,
		"portfolioUrl":           mentor.PortfolioURL,
		"ratePerSession":         mentor.RatePerSession,
		"currency":               mentor.Currency,
		"availableHours":         mentor.AvailableHours,
		"timezone":               mentor.Timezone,
		"totalSessions":          mentor.TotalSessions,
		"averageRating":          mentor.AverageRating,
		"totalReviews":           mentor.TotalReviews,
		"isVerified":             mentor.IsVerified,
		"specializations":        mentor.Specializations,
		"languages":              mentor.Languages,
		"createdAt":              mentor.CreatedAt,
	})
}
