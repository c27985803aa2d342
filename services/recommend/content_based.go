package recommend

import (
	"fmt"
	"math"
	"strings"

	"eduvibe-backend/models/profiles"
)

// ContentFactors — разложение content-based оценки по факторам, каждый в [0,1].
type ContentFactors struct {
	SubjectMatch        float64 `json:"subjectMatch"`
	LevelMatch          float64 `json:"levelMatch"`
	SkillAlignment      float64 `json:"skillAlignment"`
	ExperienceRelevance float64 `json:"experienceRelevance"`
}

type ContentScore struct {
	Score   float64        `json:"score"`
	Factors ContentFactors `json:"factors"`
	Reasons []string       `json:"reasons"`
}

// ContentBasedScore считает совместимость одной пары ученик/наставник.
// Чистая функция от входов, без обращений к базе.
func ContentBasedScore(policy ScoringPolicy, student *profiles.Student, mentor *profiles.Mentor) ContentScore {
	factors := ContentFactors{
		SubjectMatch:        subjectMatch(student, mentor),
		LevelMatch:          levelMatch(student, mentor),
		SkillAlignment:      skillAlignment(student, mentor),
		ExperienceRelevance: experienceRelevance(student, mentor),
	}

	score := factors.SubjectMatch*policy.Weight(FactorSubject) +
		factors.LevelMatch*policy.Weight(FactorLevel) +
		factors.SkillAlignment*policy.Weight(FactorSkill) +
		factors.ExperienceRelevance*policy.Weight(FactorExperience)

	return ContentScore{
		Score:   math.Round(score*100) / 100,
		Factors: factors,
		Reasons: contentReasons(factors, mentor),
	}
}

// subjectMatch — доля предметов ученика, которые покрывает наставник.
// Несимметрична: лишние предметы наставника не штрафуются.
func subjectMatch(student *profiles.Student, mentor *profiles.Mentor) float64 {
	studentSubjects := normalizeSet(student.Subjects)
	mentorSubjects := normalizeSet(mentor.Subjects)

	if len(studentSubjects) == 0 {
		return 0
	}

	matched := 0
	for subject := range studentSubjects {
		if _, ok := mentorSubjects[subject]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(studentSubjects))
}

// levelHierarchy перечисляет ключевые слова уровней образования от младших
// к старшим; пары соседних записей сводятся в один ярус делением индекса
// на два. Порядок существенен: поиск идёт по вхождению подстроки, поэтому
// "undergraduate" стоит раньше "graduate".
var levelHierarchy = []string{
	"elementary",
	"middle school", "junior high",
	"high school", "secondary",
	"college", "university", "undergraduate",
	"graduate", "postgraduate",
}

func hierarchyTier(level string) int {
	for i, keyword := range levelHierarchy {
		if strings.Contains(level, keyword) {
			return i / 2 // группируем близкие уровни
		}
	}
	return -1
}

func levelMatch(student *profiles.Student, mentor *profiles.Mentor) float64 {
	studentLevel := strings.ToLower(strings.TrimSpace(student.EducationLevel))

	mentorLevels := make([]string, 0, len(mentor.PreferredStudentLevels))
	for _, l := range mentor.PreferredStudentLevels {
		mentorLevels = append(mentorLevels, strings.ToLower(strings.TrimSpace(l)))
	}

	// Прямое совпадение
	for _, l := range mentorLevels {
		if l == studentLevel {
			return 1.0
		}
	}

	studentTier := hierarchyTier(studentLevel)
	for _, mentorLevel := range mentorLevels {
		mentorTier := hierarchyTier(mentorLevel)
		if studentTier == -1 || mentorTier == -1 {
			continue
		}
		switch diff := abs(studentTier - mentorTier); diff {
		case 0:
			return 1.0
		case 1:
			return 0.7
		case 2:
			return 0.4
		}
	}

	// Минимальная совместимость: неопознанные уровни не отбрасываем в ноль
	return 0.1
}

// skillAlignment сопоставляет заявленный уровень ученика с опытом наставника
// по каждому предмету, который наставник ведёт.
func skillAlignment(student *profiles.Student, mentor *profiles.Mentor) float64 {
	if len(student.Skills) == 0 {
		return 0.5 // нейтральная оценка, когда навыки не указаны
	}

	mentorSubjects := normalizeSet(mentor.Subjects)

	var total float64
	relevant := 0

	for _, skill := range student.Skills {
		subject := strings.ToLower(skill.Subject)
		if _, ok := mentorSubjects[subject]; !ok {
			continue
		}
		relevant++

		switch skill.Level {
		case profiles.SkillBeginner:
			// Новичкам важен просто опытный наставник
			if mentor.ExperienceYears >= 2 {
				total += 1
			} else {
				total += 0.6
			}
		case profiles.SkillIntermediate:
			if mentor.ExperienceYears >= 3 {
				total += 1
			} else {
				total += 0.7
			}
		case profiles.SkillAdvanced:
			// Продвинутым нужен наставник с большим стажем
			if mentor.ExperienceYears >= 5 {
				total += 1
			} else {
				total += 0.5
			}
		default:
			total += 0.5
		}
	}

	if relevant == 0 {
		return 0.5
	}
	return total / float64(relevant)
}

func experienceRelevance(student *profiles.Student, mentor *profiles.Mentor) float64 {
	years := mentor.ExperienceYears

	var base float64
	switch {
	case years >= 10:
		base = 1.0
	case years >= 7:
		base = 0.9
	case years >= 5:
		base = 0.8
	case years >= 3:
		base = 0.7
	case years >= 2:
		base = 0.6
	case years >= 1:
		base = 0.5
	default:
		base = 0.3
	}

	return math.Min(base+roleRelevanceBonus(student, mentor.ProfessionalRole), 1.0)
}

type roleRelevance struct {
	role     string
	subjects []string
}

// roleSubjectTable связывает профессиональную роль наставника с предметными
// ключевыми словами; пустой список предметов означает, что роль полезна для
// любого предмета. Порядок фиксирован: общепедагогические роли проверяются
// первыми.
var roleSubjectTable = []roleRelevance{
	{"teacher", nil},
	{"professor", nil},
	{"educator", nil},
	{"tutor", nil},
	{"software engineer", []string{"computer science", "programming", "coding", "software"}},
	{"data scientist", []string{"mathematics", "statistics", "data science", "python"}},
	{"researcher", []string{"science", "mathematics", "research"}},
	{"engineer", []string{"mathematics", "physics", "engineering"}},
	{"doctor", []string{"biology", "chemistry", "medical", "health"}},
	{"accountant", []string{"mathematics", "accounting", "finance"}},
	{"lawyer", []string{"law", "legal studies", "government"}},
	{"writer", []string{"english", "literature", "writing"}},
	{"artist", []string{"art", "design", "creative"}},
}

func roleRelevanceBonus(student *profiles.Student, professionalRole string) float64 {
	role := strings.ToLower(professionalRole)

	subjects := make([]string, 0, len(student.Subjects))
	for _, s := range student.Subjects {
		subjects = append(subjects, strings.ToLower(s))
	}

	for _, entry := range roleSubjectTable {
		if !strings.Contains(role, entry.role) {
			continue
		}
		if entry.subjects == nil {
			return 0.2
		}
		for _, subject := range subjects {
			for _, roleSubject := range entry.subjects {
				if strings.Contains(subject, roleSubject) {
					return 0.15
				}
			}
		}
	}

	return 0
}

func contentReasons(factors ContentFactors, mentor *profiles.Mentor) []string {
	reasons := []string{}

	if factors.SubjectMatch >= 0.8 {
		reasons = append(reasons, "Excellent subject expertise match")
	} else if factors.SubjectMatch >= 0.5 {
		reasons = append(reasons, "Good subject coverage for your needs")
	}

	if factors.LevelMatch >= 0.9 {
		reasons = append(reasons, "Perfect education level match")
	} else if factors.LevelMatch >= 0.7 {
		reasons = append(reasons, "Compatible education level experience")
	}

	if factors.ExperienceRelevance >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("%d years of relevant experience", mentor.ExperienceYears))
	}

	if factors.SkillAlignment >= 0.8 {
		reasons = append(reasons, "Teaching approach matches your skill level")
	}

	return reasons
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return set
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
