package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/lib/pq"

	"eduvibe-backend/models/bookings"
	"eduvibe-backend/models/profiles"
)

// CollaborativeSignal — оценка наставника по опыту похожих учеников.
type CollaborativeSignal struct {
	Score   float64
	Reasons []string
}

// similarStudentIDs возвращает когорту похожих учеников: хотя бы один общий
// предмет и тот же уровень образования. Размер ограничен конфигом.
func (s *Service) similarStudentIDs(ctx context.Context, student *profiles.Student) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&profiles.Student{}).
		Where("id <> ?", student.ID).
		Where("education_level = ?", student.EducationLevel).
		Where("subjects && ?", pq.Array([]string(student.Subjects))).
		Limit(s.cfg.Recommendations.SimilarStudentsCap).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find similar students: %w", err)
	}
	return ids, nil
}

// collaborativeSignals считает сигнал сразу для всех кандидатов одним
// GROUP BY-запросом вместо отдельной пары запросов на каждого наставника.
func (s *Service) collaborativeSignals(ctx context.Context, cohort []uint, mentorIDs []uint) (map[uint]CollaborativeSignal, error) {
	signals := make(map[uint]CollaborativeSignal, len(mentorIDs))
	if len(cohort) == 0 || len(mentorIDs) == 0 {
		return signals, nil
	}

	var rows []struct {
		MentorID   uint
		Successful int
	}
	err := s.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Select("mentor_id, count(*) as successful").
		Where("mentor_id IN ?", mentorIDs).
		Where("student_id IN ?", cohort).
		Where("status = ?", bookings.StatusCompleted).
		Where("student_rating >= ?", 4).
		Group("mentor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count successful sessions: %w", err)
	}

	for _, row := range rows {
		if row.Successful == 0 {
			continue
		}
		signals[row.MentorID] = CollaborativeSignal{
			Score: collaborativeScore(row.Successful, len(cohort)),
			Reasons: []string{
				fmt.Sprintf("%d students with similar profiles rated this mentor highly", row.Successful),
			},
		}
	}

	return signals, nil
}

// collaborativeScore — доля похожих учеников с успешной сессией, в [0,100].
func collaborativeScore(successful, cohortSize int) float64 {
	if cohortSize == 0 || successful == 0 {
		return 0
	}
	return math.Min(float64(successful)/float64(cohortSize)*100, 100)
}
