package recommend

import (
	"math"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvibe-backend/models/profiles"
)

func TestContentBasedScore(t *testing.T) {
	student := &profiles.Student{
		EducationLevel: "Undergraduate",
		Subjects:       pq.StringArray{"Mathematics"},
	}
	mentor := &profiles.Mentor{
		FullName:               "Dr. Smith",
		ProfessionalRole:       "Mathematics Professor",
		Subjects:               pq.StringArray{"Mathematics", "Statistics"},
		PreferredStudentLevels: pq.StringArray{"Undergraduate"},
		ExperienceYears:        5,
	}

	result := ContentBasedScore(ContentPolicy, student, mentor)

	assert.InDelta(t, 1.0, result.Factors.SubjectMatch, 1e-9)
	assert.InDelta(t, 1.0, result.Factors.LevelMatch, 1e-9)
	assert.InDelta(t, 0.5, result.Factors.SkillAlignment, 1e-9)
	// 0.8 за пять лет опыта + 0.2 за преподавательскую роль
	assert.InDelta(t, 1.0, result.Factors.ExperienceRelevance, 1e-9)

	// 1.0*0.40 + 1.0*0.25 + 0.5*0.20 + 1.0*0.15
	assert.InDelta(t, 0.90, result.Score, 1e-9)

	assert.Contains(t, result.Reasons, "Excellent subject expertise match")
	assert.Contains(t, result.Reasons, "Perfect education level match")
	assert.Contains(t, result.Reasons, "5 years of relevant experience")
}

func TestContentBasedScoreRounding(t *testing.T) {
	student := &profiles.Student{
		EducationLevel: "High School",
		Subjects:       pq.StringArray{"Physics", "Chemistry", "Biology"},
	}
	mentor := &profiles.Mentor{
		ProfessionalRole:       "Lab Technician",
		Subjects:               pq.StringArray{"Physics"},
		PreferredStudentLevels: pq.StringArray{"High School"},
		ExperienceYears:        1,
	}

	result := ContentBasedScore(ContentPolicy, student, mentor)

	// Итог округляется до двух знаков
	assert.InDelta(t, math.Round(result.Score*100)/100, result.Score, 1e-9)
	assert.GreaterOrEqual(t, result.Score, 0.0)
	assert.LessOrEqual(t, result.Score, 1.0)
}

func TestSubjectMatch(t *testing.T) {
	t.Run("disjoint subjects", func(t *testing.T) {
		student := &profiles.Student{Subjects: pq.StringArray{"History", "Geography"}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Physics", "Chemistry"}}
		assert.Zero(t, subjectMatch(student, mentor))
	})

	t.Run("full coverage", func(t *testing.T) {
		student := &profiles.Student{Subjects: pq.StringArray{"Math", "Physics"}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math", "Physics", "Chemistry"}}
		assert.InDelta(t, 1.0, subjectMatch(student, mentor), 1e-9)
	})

	t.Run("partial coverage", func(t *testing.T) {
		student := &profiles.Student{Subjects: pq.StringArray{"Math", "Physics"}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}}
		assert.InDelta(t, 0.5, subjectMatch(student, mentor), 1e-9)
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		student := &profiles.Student{Subjects: pq.StringArray{"  MATHEMATICS "}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"mathematics"}}
		assert.InDelta(t, 1.0, subjectMatch(student, mentor), 1e-9)
	})

	t.Run("student without subjects", func(t *testing.T) {
		student := &profiles.Student{}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}}
		assert.Zero(t, subjectMatch(student, mentor))
	})
}

func TestLevelMatch(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "University"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"University"}}
		assert.InDelta(t, 1.0, levelMatch(student, mentor), 1e-9)
	})

	t.Run("same tier keywords", func(t *testing.T) {
		// "university" и "undergraduate" сведены в один ярус
		student := &profiles.Student{EducationLevel: "University"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"Undergraduate"}}
		assert.InDelta(t, 1.0, levelMatch(student, mentor), 1e-9)
	})

	t.Run("college and university are adjacent tiers", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "College"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"University"}}
		assert.InDelta(t, 0.7, levelMatch(student, mentor), 1e-9)
	})

	t.Run("adjacent tiers", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "High School"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"College"}}
		assert.InDelta(t, 0.7, levelMatch(student, mentor), 1e-9)
	})

	t.Run("two tiers apart", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "Elementary"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"College"}}
		assert.InDelta(t, 0.4, levelMatch(student, mentor), 1e-9)
	})

	t.Run("unmapped levels keep floor", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "Homeschool"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"Bootcamp"}}
		assert.InDelta(t, 0.1, levelMatch(student, mentor), 1e-9)
	})

	t.Run("distant tiers keep floor", func(t *testing.T) {
		student := &profiles.Student{EducationLevel: "Elementary"}
		mentor := &profiles.Mentor{PreferredStudentLevels: pq.StringArray{"Postgraduate"}}
		assert.InDelta(t, 0.1, levelMatch(student, mentor), 1e-9)
	})
}

func TestHierarchyTier(t *testing.T) {
	// Ярус — это индекс ключевого слова, делённый на два: пары соседних
	// записей списка склеиваются
	assert.Equal(t, 0, hierarchyTier("elementary school"))
	assert.Equal(t, 0, hierarchyTier("middle school"))
	assert.Equal(t, 1, hierarchyTier("junior high"))
	assert.Equal(t, 1, hierarchyTier("high school"))
	assert.Equal(t, 2, hierarchyTier("secondary education"))
	assert.Equal(t, 2, hierarchyTier("college"))
	assert.Equal(t, 3, hierarchyTier("university"))
	// "undergraduate" должен попадать в ярус бакалавриата, а не аспирантуры
	assert.Equal(t, 3, hierarchyTier("undergraduate"))
	assert.Equal(t, 4, hierarchyTier("graduate school"))
	assert.Equal(t, 4, hierarchyTier("postgraduate studies"))
	assert.Equal(t, -1, hierarchyTier("vocational"))
}

func TestSkillAlignment(t *testing.T) {
	t.Run("no skills is neutral", func(t *testing.T) {
		student := &profiles.Student{}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, ExperienceYears: 10}
		assert.InDelta(t, 0.5, skillAlignment(student, mentor), 1e-9)
	})

	t.Run("no overlapping skills is neutral", func(t *testing.T) {
		student := &profiles.Student{Skills: []profiles.StudentSkill{
			{Subject: "History", Level: profiles.SkillBeginner},
		}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, ExperienceYears: 10}
		assert.InDelta(t, 0.5, skillAlignment(student, mentor), 1e-9)
	})

	t.Run("beginner with seasoned mentor", func(t *testing.T) {
		student := &profiles.Student{Skills: []profiles.StudentSkill{
			{Subject: "Math", Level: profiles.SkillBeginner},
		}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, ExperienceYears: 2}
		assert.InDelta(t, 1.0, skillAlignment(student, mentor), 1e-9)
	})

	t.Run("advanced with junior mentor", func(t *testing.T) {
		student := &profiles.Student{Skills: []profiles.StudentSkill{
			{Subject: "Math", Level: profiles.SkillAdvanced},
		}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, ExperienceYears: 3}
		assert.InDelta(t, 0.5, skillAlignment(student, mentor), 1e-9)
	})

	t.Run("averages over relevant skills", func(t *testing.T) {
		student := &profiles.Student{Skills: []profiles.StudentSkill{
			{Subject: "Math", Level: profiles.SkillBeginner},     // 1.0
			{Subject: "Physics", Level: profiles.SkillAdvanced},  // 0.5
			{Subject: "History", Level: profiles.SkillAdvanced},  // не ведёт, пропуск
		}}
		mentor := &profiles.Mentor{Subjects: pq.StringArray{"Math", "Physics"}, ExperienceYears: 4}
		assert.InDelta(t, 0.75, skillAlignment(student, mentor), 1e-9)
	})
}

func TestExperienceRelevance(t *testing.T) {
	student := &profiles.Student{Subjects: pq.StringArray{"History"}}

	cases := []struct {
		years int
		want  float64
	}{
		{0, 0.3},
		{1, 0.5},
		{2, 0.6},
		{3, 0.7},
		{5, 0.8},
		{7, 0.9},
		{10, 1.0},
		{25, 1.0},
	}
	for _, tc := range cases {
		mentor := &profiles.Mentor{ExperienceYears: tc.years, ProfessionalRole: "Analyst"}
		assert.InDelta(t, tc.want, experienceRelevance(student, mentor), 1e-9,
			"years=%d", tc.years)
	}

	t.Run("capped at one with role bonus", func(t *testing.T) {
		mentor := &profiles.Mentor{ExperienceYears: 12, ProfessionalRole: "Professor"}
		assert.InDelta(t, 1.0, experienceRelevance(student, mentor), 1e-9)
	})
}

func TestRoleRelevanceBonus(t *testing.T) {
	mathStudent := &profiles.Student{Subjects: pq.StringArray{"Mathematics"}}

	t.Run("teaching roles apply to any subject", func(t *testing.T) {
		assert.InDelta(t, 0.2, roleRelevanceBonus(mathStudent, "High School Teacher"), 1e-9)
		assert.InDelta(t, 0.2, roleRelevanceBonus(mathStudent, "Private Tutor"), 1e-9)
	})

	t.Run("domain role matched to subject", func(t *testing.T) {
		assert.InDelta(t, 0.15, roleRelevanceBonus(mathStudent, "Data Scientist"), 1e-9)
	})

	t.Run("domain role without subject overlap", func(t *testing.T) {
		artStudent := &profiles.Student{Subjects: pq.StringArray{"Art"}}
		assert.Zero(t, roleRelevanceBonus(artStudent, "Accountant"))
	})

	t.Run("generic role wins over domain role", func(t *testing.T) {
		// "Engineering Professor" подходит и под professor, и под engineer;
		// общепедагогическая запись стоит в таблице раньше
		student := &profiles.Student{Subjects: pq.StringArray{"History"}}
		assert.InDelta(t, 0.2, roleRelevanceBonus(student, "Engineering Professor"), 1e-9)
	})

	t.Run("unknown role", func(t *testing.T) {
		assert.Zero(t, roleRelevanceBonus(mathStudent, "Chef"))
	})
}

func TestContentFactorsStayInRange(t *testing.T) {
	students := []*profiles.Student{
		{},
		{EducationLevel: "University", Subjects: pq.StringArray{"Math"}},
		{
			EducationLevel: "elementary",
			Subjects:       pq.StringArray{"Art", "Music", "History"},
			Skills: []profiles.StudentSkill{
				{Subject: "Art", Level: profiles.SkillAdvanced},
			},
		},
	}
	mentors := []*profiles.Mentor{
		{},
		{
			ProfessionalRole:       "Software Engineer",
			Subjects:               pq.StringArray{"Programming", "Math"},
			PreferredStudentLevels: pq.StringArray{"University", "College"},
			ExperienceYears:        15,
		},
	}

	for _, student := range students {
		for _, mentor := range mentors {
			result := ContentBasedScore(ContentPolicy, student, mentor)
			require.GreaterOrEqual(t, result.Factors.SubjectMatch, 0.0)
			require.LessOrEqual(t, result.Factors.SubjectMatch, 1.0)
			require.GreaterOrEqual(t, result.Factors.LevelMatch, 0.0)
			require.LessOrEqual(t, result.Factors.LevelMatch, 1.0)
			require.GreaterOrEqual(t, result.Factors.SkillAlignment, 0.0)
			require.LessOrEqual(t, result.Factors.SkillAlignment, 1.0)
			require.GreaterOrEqual(t, result.Factors.ExperienceRelevance, 0.0)
			require.LessOrEqual(t, result.Factors.ExperienceRelevance, 1.0)
			require.GreaterOrEqual(t, result.Score, 0.0)
			require.LessOrEqual(t, result.Score, 1.0)
		}
	}
}
