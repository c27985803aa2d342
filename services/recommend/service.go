package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"eduvibe-backend/apperr"
	"eduvibe-backend/config"
	"eduvibe-backend/models/profiles"
)

// Service — движок рекомендаций и поиска наставников. Состояния между
// запросами не хранит: каждый вызов считается заново.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.Logger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

// Recommendation — итог для одного наставника; никогда не персистится.
type Recommendation struct {
	Mentor       profiles.Mentor `json:"mentor"`
	Score        float64         `json:"score"`
	MatchReasons []string        `json:"matchReasons"`
}

type mentorScore struct {
	mentorID uint
	score    float64
	reasons  []string
}

// Recommendations строит персональный рейтинг наставников для ученика по
// userID. Гибридная формула: контентные факторы + рейтинг + коллаборативный
// сигнал, веса HybridPolicy.
func (s *Service) Recommendations(ctx context.Context, userID uint, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = s.cfg.Recommendations.DefaultLimit
	}
	if limit > s.cfg.Recommendations.MaxLimit {
		limit = s.cfg.Recommendations.MaxLimit
	}

	var student profiles.Student
	err := s.db.WithContext(ctx).
		Preload("Skills").
		Where("user_id = ?", userID).
		First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Student profile not found",
			"Complete your student onboarding first")
	}
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}

	// Кандидаты: только доступные и проверенные наставники
	var candidates []profiles.Mentor
	if err := s.db.WithContext(ctx).
		Where("is_available = ? AND is_verified = ?", true, true).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("load candidate mentors: %w", err)
	}

	cohort, err := s.similarStudentIDs(ctx, &student)
	if err != nil {
		return nil, err
	}

	mentorIDs := make([]uint, 0, len(candidates))
	for _, m := range candidates {
		mentorIDs = append(mentorIDs, m.ID)
	}

	signals, err := s.collaborativeSignals(ctx, cohort, mentorIDs)
	if err != nil {
		return nil, err
	}

	scores := make([]mentorScore, 0, len(candidates))
	for i := range candidates {
		total, reasons := hybridScore(HybridPolicy, &student, &candidates[i], signals[candidates[i].ID])
		scores = append(scores, mentorScore{
			mentorID: candidates[i].ID,
			score:    total,
			reasons:  reasons,
		})
	}

	scores = topScores(scores, limit)

	s.log.Debug("recommendations computed",
		zap.Uint("userID", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("cohort", len(cohort)),
		zap.Int("returned", len(scores)))

	return s.populateResults(ctx, scores)
}

// sortByScore сортирует по убыванию итогового балла.
func sortByScore(scores []mentorScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
}

// topScores возвращает не больше limit лучших кандидатов.
func topScores(scores []mentorScore, limit int) []mentorScore {
	sortByScore(scores)
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// populateResults дотягивает полные профили только для отобранных
// наставников, чтобы не гонять данные по отброшенным кандидатам.
func (s *Service) populateResults(ctx context.Context, scores []mentorScore) ([]Recommendation, error) {
	ids := make([]uint, 0, len(scores))
	for _, sc := range scores {
		ids = append(ids, sc.mentorID)
	}

	results := make([]Recommendation, 0, len(scores))
	if len(ids) == 0 {
		return results, nil
	}

	var mentors []profiles.Mentor
	if err := s.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("populate mentors: %w", err)
	}

	byID := make(map[uint]profiles.Mentor, len(mentors))
	for _, m := range mentors {
		byID[m.ID] = m
	}

	for _, sc := range scores {
		mentor, ok := byID[sc.mentorID]
		if !ok {
			continue
		}
		results = append(results, Recommendation{
			Mentor:       mentor,
			Score:        sc.score,
			MatchReasons: sc.reasons,
		})
	}

	return results, nil
}

// hybridScore взвешивает пять субскоров (каждый на шкале 0–100) и
// ограничивает итог сотней.
func hybridScore(policy ScoringPolicy, student *profiles.Student, mentor *profiles.Mentor, signal CollaborativeSignal) (float64, []string) {
	total := 0.0
	reasons := []string{}

	subjectScore, subjectReasons := hybridSubjectScore(student, mentor)
	total += subjectScore * policy.Weight(FactorSubject)
	if subjectScore > 0 {
		reasons = append(reasons, subjectReasons...)
	}

	levelScore, levelReason := hybridLevelScore(student, mentor)
	total += levelScore * policy.Weight(FactorLevel)
	if levelScore > 0 && levelReason != "" {
		reasons = append(reasons, levelReason)
	}

	ratingScore, ratingReason := hybridRatingScore(mentor)
	total += ratingScore * policy.Weight(FactorRating)
	if ratingScore > 0 && ratingReason != "" {
		reasons = append(reasons, ratingReason)
	}

	experienceScore, experienceReason := hybridExperienceScore(mentor)
	total += experienceScore * policy.Weight(FactorExperience)
	if experienceScore > 0 {
		reasons = append(reasons, experienceReason)
	}

	total += signal.Score * policy.Weight(FactorCollaborative)
	if signal.Score > 0 {
		reasons = append(reasons, signal.Reasons...)
	}

	return math.Min(total, 100), reasons
}

func hybridSubjectScore(student *profiles.Student, mentor *profiles.Mentor) (float64, []string) {
	if len(student.Subjects) == 0 {
		return 0, nil
	}

	mentorSubjects := normalizeSet(mentor.Subjects)
	common := []string{}
	for _, subject := range student.Subjects {
		if _, ok := mentorSubjects[strings.ToLower(strings.TrimSpace(subject))]; ok {
			common = append(common, strings.ToLower(subject))
		}
	}

	if len(common) == 0 {
		return 0, nil
	}

	score := float64(len(common)) / float64(len(student.Subjects)) * 100
	reason := fmt.Sprintf("Teaches %d of your subjects: %s", len(common), strings.Join(common, ", "))
	return score, []string{reason}
}

// hybridLevelHierarchy — укороченная лестница уровней гибридной формулы;
// намеренно отличается от десятиэлементной в content-based скоринге.
var hybridLevelHierarchy = []string{"elementary", "middle school", "high school", "college", "university"}

func hybridLevelScore(student *profiles.Student, mentor *profiles.Mentor) (float64, string) {
	studentLevel := strings.ToLower(student.EducationLevel)

	for _, l := range mentor.PreferredStudentLevels {
		if strings.ToLower(l) == studentLevel {
			return 100, fmt.Sprintf("Specializes in %s level students", student.EducationLevel)
		}
	}

	studentIndex := hierarchyIndex(hybridLevelHierarchy, studentLevel)
	if studentIndex == -1 {
		return 0, ""
	}

	for _, mentorLevel := range mentor.PreferredStudentLevels {
		mentorIndex := hierarchyIndex(hybridLevelHierarchy, strings.ToLower(mentorLevel))
		if mentorIndex != -1 && abs(studentIndex-mentorIndex) <= 1 {
			return 60, "Has experience with similar education levels"
		}
	}

	return 0, ""
}

func hierarchyIndex(hierarchy []string, level string) int {
	for i, keyword := range hierarchy {
		if strings.Contains(level, keyword) {
			return i
		}
	}
	return -1
}

func hybridRatingScore(mentor *profiles.Mentor) (float64, string) {
	if mentor.AverageRating == 0 || mentor.TotalReviews < 3 {
		return 50, "" // нейтральная оценка для новых наставников
	}

	score := mentor.AverageRating / 5 * 100
	reason := fmt.Sprintf("Highly rated: %.1f/5 stars from %d reviews", mentor.AverageRating, mentor.TotalReviews)
	return score, reason
}

func hybridExperienceScore(mentor *profiles.Mentor) (float64, string) {
	years := mentor.ExperienceYears
	switch {
	case years >= 10:
		return 100, fmt.Sprintf("%d years of extensive experience", years)
	case years >= 5:
		return 80, fmt.Sprintf("%d years of solid experience", years)
	case years >= 2:
		return 60, fmt.Sprintf("%d years of experience", years)
	default:
		return 40, fmt.Sprintf("%d year(s) of experience", years)
	}
}

// Criteria — параметры подбора без привязки к профилю ученика.
type Criteria struct {
	Subjects  []string
	MaxBudget float64
	MinRating float64
	Limit     int
}

// RecommendationsByCriteria подбирает наставников по явным критериям;
// балл здесь — производная рейтинга, без контентных факторов.
func (s *Service) RecommendationsByCriteria(ctx context.Context, criteria Criteria) ([]Recommendation, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > s.cfg.Recommendations.MaxLimit {
		limit = s.cfg.Recommendations.MaxLimit
	}

	query := s.db.WithContext(ctx).
		Preload("User").
		Where("is_available = ? AND is_verified = ?", true, true)

	if len(criteria.Subjects) > 0 {
		query = query.Where("subjects && ?", pq.Array(criteria.Subjects))
	}
	if criteria.MaxBudget > 0 {
		query = query.Where("rate_per_session <= ?", criteria.MaxBudget)
	}
	if criteria.MinRating > 0 {
		query = query.Where("average_rating >= ?", criteria.MinRating)
	}

	var mentors []profiles.Mentor
	if err := query.
		Order("average_rating DESC, total_sessions DESC").
		Limit(limit).
		Find(&mentors).Error; err != nil {
		return nil, fmt.Errorf("find mentors by criteria: %w", err)
	}

	results := make([]Recommendation, 0, len(mentors))
	for _, mentor := range mentors {
		score := 50.0
		if mentor.AverageRating > 0 {
			score = mentor.AverageRating / 5 * 100
		}
		results = append(results, Recommendation{
			Mentor:       mentor,
			Score:        score,
			MatchReasons: []string{"Matches your search criteria"},
		})
	}

	return results, nil
}
