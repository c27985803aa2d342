package profiles

import (
	"time"

	"github.com/lib/pq"

	"eduvibe-backend/models/users"
)

const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
)

// StudentSkill — заявленный учеником уровень по одному предмету.
type StudentSkill struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	StudentID uint   `gorm:"index" json:"-"`
	Subject   string `gorm:"not null" json:"subject"`
	Level     string `gorm:"not null" json:"level"` // Beginner, Intermediate, Advanced
}

type Student struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	UserID                 uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User                   users.User     `json:"user"`
	FullName               string         `gorm:"not null" json:"fullName"`
	Age                    int            `json:"age"`
	ContactNumber          string         `json:"contactNumber"`
	School                 string         `json:"school"`
	EducationLevel         string         `gorm:"index;not null" json:"educationLevel"`
	Subjects               pq.StringArray `gorm:"type:text[]" json:"subjects"`
	Skills                 []StudentSkill `gorm:"foreignKey:StudentID" json:"skills"`
	PreferredLearningStyle string         `json:"preferredLearningStyle,omitempty"`
	Accommodations         string         `json:"accommodations,omitempty"`
	CompletedSessions      int            `gorm:"default:0" json:"completedSessions"`
	TotalSpent             float64        `gorm:"default:0" json:"totalSpent"`
	AverageRating          float64        `json:"averageRating,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}
