package recommend

import (
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvibe-backend/models/profiles"
)

func TestSearchFiltersJSONKeys(t *testing.T) {
	// Фильтры отдаются клиенту как appliedFilters, поэтому ключи
	// должны оставаться в camelCase
	raw, err := json.Marshal(SearchFilters{
		Subjects:        []string{"Math"},
		Language:        "en",
		MaxPrice:        50,
		MinRating:       4,
		ExperienceYears: 3,
		SessionDuration: 60,
		Page:            1,
		Limit:           12,
		Sort:            "relevance",
	})
	require.NoError(t, err)

	var keys map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &keys))

	for _, key := range []string{
		"subjects", "language", "maxPrice", "minRating",
		"experienceYears", "sessionDuration", "page", "limit", "sort",
	} {
		assert.Contains(t, keys, key)
	}
	assert.NotContains(t, keys, "Subjects")
	assert.NotContains(t, keys, "MaxPrice")
}

func TestSearchScore(t *testing.T) {
	t.Run("strong match without price history", func(t *testing.T) {
		student := &profiles.Student{
			EducationLevel: "University",
			Subjects:       pq.StringArray{"Mathematics"},
		}
		mentor := &profiles.Mentor{
			Subjects:               pq.StringArray{"Mathematics"},
			PreferredStudentLevels: pq.StringArray{"University"},
			AverageRating:          5,
			ExperienceYears:        10,
		}

		score, reasons := searchScore(SearchPolicy, student, mentor)

		// 1*0.4 + 1*0.2 + 1*0.15 + 1*0.1 = 0.85 → 85
		assert.InDelta(t, 85, score, 1e-9)
		assert.Contains(t, reasons, "Teaches Mathematics")
		assert.Contains(t, reasons, "Suitable for University level")
		assert.Contains(t, reasons, "Highly rated mentor (5.0)")
		assert.Contains(t, reasons, "10 years of experience")
	})

	t.Run("price factor needs spending history", func(t *testing.T) {
		student := &profiles.Student{
			Subjects:          pq.StringArray{"Math"},
			TotalSpent:        200,
			CompletedSessions: 4, // в среднем 50 за сессию
		}
		cheap := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, RatePerSession: 40}
		pricey := &profiles.Mentor{Subjects: pq.StringArray{"Math"}, RatePerSession: 300}

		cheapScore, cheapReasons := searchScore(SearchPolicy, student, cheap)
		priceyScore, _ := searchScore(SearchPolicy, student, pricey)

		assert.Greater(t, cheapScore, priceyScore)
		assert.Contains(t, cheapReasons, "Within your typical budget")
	})

	t.Run("low rating contributes nothing", func(t *testing.T) {
		student := &profiles.Student{Subjects: pq.StringArray{"Math"}}
		mentor := &profiles.Mentor{
			Subjects:      pq.StringArray{"Math"},
			AverageRating: 2.5, // ниже нейтральной тройки
		}

		score, _ := searchScore(SearchPolicy, student, mentor)

		// Только предметный фактор: 1*0.4 → 40
		assert.InDelta(t, 40, score, 1e-9)
	})
}

func TestSearchSubjectMatch(t *testing.T) {
	t.Run("bidirectional substring", func(t *testing.T) {
		score, reasons := searchSubjectMatch(
			pq.StringArray{"Mathematics", "Statistics"},
			pq.StringArray{"Math"},
		)
		assert.InDelta(t, 1.0, score, 1e-9)
		assert.Contains(t, reasons, "Teaches Mathematics")
	})

	t.Run("student abbreviation matches mentor subject", func(t *testing.T) {
		score, _ := searchSubjectMatch(
			pq.StringArray{"Bio"},
			pq.StringArray{"Biology"},
		)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("no overlap", func(t *testing.T) {
		score, reasons := searchSubjectMatch(
			pq.StringArray{"History"},
			pq.StringArray{"Physics"},
		)
		assert.Zero(t, score)
		assert.Empty(t, reasons)
	})
}

func TestSearchSkillMatch(t *testing.T) {
	skills := []profiles.StudentSkill{
		{Subject: "Math", Level: profiles.SkillIntermediate},
		{Subject: "History", Level: profiles.SkillBeginner},
	}

	score, reasons := searchSkillMatch(pq.StringArray{"Mathematics"}, skills)

	assert.InDelta(t, 0.5, score, 1e-9)
	assert.Contains(t, reasons, "Matches your Intermediate level in Math")
}

func TestSortScored(t *testing.T) {
	build := func() []ScoredMentor {
		return []ScoredMentor{
			{Mentor: profiles.Mentor{ID: 1, AverageRating: 4.2, RatePerSession: 80, ExperienceYears: 3}, Score: 60},
			{Mentor: profiles.Mentor{ID: 2, AverageRating: 4.9, RatePerSession: 120, ExperienceYears: 10}, Score: 95},
			{Mentor: profiles.Mentor{ID: 3, AverageRating: 3.5, RatePerSession: 30, ExperienceYears: 1}, Score: 20},
		}
	}

	t.Run("by rating", func(t *testing.T) {
		mentors := build()
		sortScored(mentors, "rating")
		for i := 1; i < len(mentors); i++ {
			assert.GreaterOrEqual(t, mentors[i-1].Mentor.AverageRating, mentors[i].Mentor.AverageRating)
		}
	})

	t.Run("by price ascending", func(t *testing.T) {
		mentors := build()
		sortScored(mentors, "price")
		for i := 1; i < len(mentors); i++ {
			assert.LessOrEqual(t, mentors[i-1].Mentor.RatePerSession, mentors[i].Mentor.RatePerSession)
		}
	})

	t.Run("by experience", func(t *testing.T) {
		mentors := build()
		sortScored(mentors, "experience")
		assert.Equal(t, uint(2), mentors[0].Mentor.ID)
	})

	t.Run("by relevance", func(t *testing.T) {
		mentors := build()
		sortScored(mentors, "relevance")
		assert.Equal(t, uint(2), mentors[0].Mentor.ID)
		assert.Equal(t, uint(3), mentors[2].Mentor.ID)
	})
}

func TestPaginate(t *testing.T) {
	mentors := make([]ScoredMentor, 25)
	for i := range mentors {
		mentors[i].Mentor.ID = uint(i + 1)
	}

	t.Run("first page", func(t *testing.T) {
		page := paginate(mentors, 1, 12)
		assert.Len(t, page, 12)
		assert.Equal(t, uint(1), page[0].Mentor.ID)
	})

	t.Run("last partial page", func(t *testing.T) {
		page := paginate(mentors, 3, 12)
		assert.Len(t, page, 1)
		assert.Equal(t, uint(25), page[0].Mentor.ID)
	})

	t.Run("page past the end", func(t *testing.T) {
		page := paginate(mentors, 4, 12)
		assert.Empty(t, page)
	})
}
