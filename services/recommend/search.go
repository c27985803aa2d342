package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lib/pq"

	"eduvibe-backend/models/profiles"
)

// SearchFilters — явные фильтры поиска наставников. Нулевые значения
// означают "фильтр не задан".
type SearchFilters struct {
	Subjects        []string `json:"subjects"`
	Language        string   `json:"language"`
	MaxPrice        float64  `json:"maxPrice"`
	MinRating       float64  `json:"minRating"`
	ExperienceYears int      `json:"experienceYears"`
	SessionDuration int      `json:"sessionDuration"`
	Page            int      `json:"page"`
	Limit           int      `json:"limit"`
	Sort            string   `json:"sort"` // rating, price, experience, relevance
}

type ScoredMentor struct {
	Mentor       profiles.Mentor
	Score        float64
	MatchReasons []string
}

type SearchResult struct {
	Mentors      []ScoredMentor
	Total        int
	Page         int
	Limit        int
	Personalized bool
}

// SearchMentors применяет фильтры на уровне базы, затем — только для
// авторизованного ученика при сортировке по релевантности — скоринг по
// SearchPolicy поверх уже отфильтрованного набора.
func (s *Service) SearchMentors(ctx context.Context, filters SearchFilters, student *profiles.Student) (*SearchResult, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = s.cfg.Recommendations.SearchPageSize
	}
	if filters.Limit > s.cfg.Recommendations.MaxLimit {
		filters.Limit = s.cfg.Recommendations.MaxLimit
	}
	if filters.Sort == "" {
		filters.Sort = "relevance"
	}

	query := s.db.WithContext(ctx).
		Preload("User").
		Where("is_available = ? AND is_verified = ?", true, true)

	if len(filters.Subjects) > 0 {
		query = query.Where("subjects && ?", pq.Array(filters.Subjects))
	}
	if filters.Language != "" {
		query = query.Where("languages && ?", pq.Array([]string{filters.Language}))
	}
	if filters.MaxPrice > 0 {
		query = query.Where("rate_per_session <= ?", filters.MaxPrice)
	}
	if filters.MinRating > 0 {
		query = query.Where("average_rating >= ?", filters.MinRating)
	}
	if filters.ExperienceYears > 0 {
		query = query.Where("experience_years >= ?", filters.ExperienceYears)
	}

	var mentors []profiles.Mentor
	if err := query.Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("search mentors: %w", err)
	}

	personalized := student != nil && filters.Sort == "relevance"

	scored := make([]ScoredMentor, 0, len(mentors))
	for i := range mentors {
		item := ScoredMentor{Mentor: mentors[i], MatchReasons: []string{}}
		if personalized {
			item.Score, item.MatchReasons = searchScore(SearchPolicy, student, &mentors[i])
		}
		scored = append(scored, item)
	}

	sortScored(scored, filters.Sort)

	total := len(scored)
	page := paginate(scored, filters.Page, filters.Limit)

	return &SearchResult{
		Mentors:      page,
		Total:        total,
		Page:         filters.Page,
		Limit:        filters.Limit,
		Personalized: personalized,
	}, nil
}

// searchScore — независимая формула релевантности поиска; субскоры в [0,1],
// итог переводится в проценты и округляется.
func searchScore(policy ScoringPolicy, student *profiles.Student, mentor *profiles.Mentor) (float64, []string) {
	score := 0.0
	reasons := []string{}

	subjectScore, subjectReasons := searchSubjectMatch(mentor.Subjects, student.Subjects)
	score += subjectScore * policy.Weight(FactorSubject)
	if subjectScore > 0 {
		reasons = append(reasons, subjectReasons...)
	}

	levelScore, levelReason := searchLevelMatch(mentor.PreferredStudentLevels, student.EducationLevel)
	score += levelScore * policy.Weight(FactorLevel)
	if levelScore > 0 {
		reasons = append(reasons, levelReason)
	}

	if mentor.AverageRating > 0 {
		ratingScore := (mentor.AverageRating - 3) / 2 // нормируем 3–5 в 0–1
		score += math.Max(0, ratingScore) * policy.Weight(FactorRating)
		if mentor.AverageRating >= 4.5 {
			reasons = append(reasons, fmt.Sprintf("Highly rated mentor (%.1f)", mentor.AverageRating))
		}
	}

	experienceScore := math.Min(float64(mentor.ExperienceYears)/10, 1)
	score += experienceScore * policy.Weight(FactorExperience)
	if mentor.ExperienceYears >= 5 {
		reasons = append(reasons, fmt.Sprintf("%d years of experience", mentor.ExperienceYears))
	}

	if student.TotalSpent > 0 {
		avgSpent := student.TotalSpent / math.Max(float64(student.CompletedSessions), 1)
		priceScore := 0.5
		if mentor.RatePerSession <= avgSpent*1.5 {
			priceScore = 1
		}
		score += priceScore * policy.Weight(FactorPrice)
		if mentor.RatePerSession <= avgSpent {
			reasons = append(reasons, "Within your typical budget")
		}
	}

	if len(student.Skills) > 0 {
		skillScore, skillReasons := searchSkillMatch(mentor.Subjects, student.Skills)
		score += skillScore * policy.Weight(FactorSkill)
		if skillScore > 0 {
			reasons = append(reasons, skillReasons...)
		}
	}

	return math.Round(score * 100), reasons
}

// searchSubjectMatch — двустороннее вхождение подстрок: "Math" у ученика
// матчится с "Mathematics" у наставника и наоборот.
func searchSubjectMatch(mentorSubjects, studentSubjects []string) (float64, []string) {
	matched := []string{}
	for _, subject := range mentorSubjects {
		for _, studentSubject := range studentSubjects {
			a := strings.ToLower(subject)
			b := strings.ToLower(studentSubject)
			if strings.Contains(a, b) || strings.Contains(b, a) {
				matched = append(matched, subject)
				break
			}
		}
	}

	score := float64(len(matched)) / math.Max(float64(len(studentSubjects)), 1)

	reasons := make([]string, 0, len(matched))
	for _, subject := range matched {
		reasons = append(reasons, fmt.Sprintf("Teaches %s", subject))
	}

	return score, reasons
}

func searchLevelMatch(mentorLevels []string, studentLevel string) (float64, string) {
	normalized := strings.ToLower(studentLevel)
	for _, level := range mentorLevels {
		l := strings.ToLower(level)
		if strings.Contains(l, normalized) || strings.Contains(normalized, l) {
			return 1, fmt.Sprintf("Suitable for %s level", studentLevel)
		}
	}
	return 0, ""
}

func searchSkillMatch(mentorSubjects []string, skills []profiles.StudentSkill) (float64, []string) {
	matched := []profiles.StudentSkill{}
	for _, skill := range skills {
		for _, subject := range mentorSubjects {
			a := strings.ToLower(subject)
			b := strings.ToLower(skill.Subject)
			if strings.Contains(a, b) || strings.Contains(b, a) {
				matched = append(matched, skill)
				break
			}
		}
	}

	score := float64(len(matched)) / math.Max(float64(len(skills)), 1)

	reasons := make([]string, 0, len(matched))
	for _, skill := range matched {
		reasons = append(reasons, fmt.Sprintf("Matches your %s level in %s", skill.Level, skill.Subject))
	}

	return score, reasons
}

func sortScored(mentors []ScoredMentor, sortBy string) {
	switch sortBy {
	case "rating":
		sort.SliceStable(mentors, func(i, j int) bool {
			return mentors[i].Mentor.AverageRating > mentors[j].Mentor.AverageRating
		})
	case "price":
		sort.SliceStable(mentors, func(i, j int) bool {
			return mentors[i].Mentor.RatePerSession < mentors[j].Mentor.RatePerSession
		})
	case "experience":
		sort.SliceStable(mentors, func(i, j int) bool {
			return mentors[i].Mentor.ExperienceYears > mentors[j].Mentor.ExperienceYears
		})
	default: // relevance
		sort.SliceStable(mentors, func(i, j int) bool {
			return mentors[i].Score > mentors[j].Score
		})
	}
}

// paginate режет уже отсортированный список; страница за пределами
// диапазона даёт пустой срез.
func paginate(mentors []ScoredMentor, page, limit int) []ScoredMentor {
	start := (page - 1) * limit
	if start >= len(mentors) {
		return []ScoredMentor{}
	}
	end := start + limit
	if end > len(mentors) {
		end = len(mentors)
	}
	return mentors[start:end]
}
