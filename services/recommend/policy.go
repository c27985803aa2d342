package recommend

// Factor — именованный фактор совместимости ученика и наставника.
type Factor string

const (
	FactorSubject       Factor = "subjectMatch"
	FactorLevel         Factor = "levelMatch"
	FactorSkill         Factor = "skillAlignment"
	FactorExperience    Factor = "experienceRelevance"
	FactorRating        Factor = "rating"
	FactorCollaborative Factor = "collaborative"
	FactorPrice         Factor = "priceAffordability"
)

// ScoringPolicy — веса факторов для одной точки входа. Три места вызова
// используют один механизм подсчёта, но намеренно разные таблицы весов;
// числа не унифицированы сознательно (см. DESIGN.md).
type ScoringPolicy map[Factor]float64

func (p ScoringPolicy) Weight(f Factor) float64 {
	return p[f]
}

var (
	// ContentPolicy — чистый content-based скоринг (шкала 0–1).
	ContentPolicy = ScoringPolicy{
		FactorSubject:    0.4,
		FactorLevel:      0.25,
		FactorSkill:      0.2,
		FactorExperience: 0.15,
	}

	// HybridPolicy — гибридные рекомендации с коллаборативным сигналом
	// (субскоры на шкале 0–100).
	HybridPolicy = ScoringPolicy{
		FactorSubject:       0.3,
		FactorLevel:         0.2,
		FactorRating:        0.25,
		FactorExperience:    0.15,
		FactorCollaborative: 0.1,
	}

	// SearchPolicy — релевантность в поиске наставников (шкала 0–1).
	SearchPolicy = ScoringPolicy{
		FactorSubject:    0.4,
		FactorLevel:      0.2,
		FactorRating:     0.15,
		FactorExperience: 0.1,
		FactorPrice:      0.1,
		FactorSkill:      0.05,
	}
)
