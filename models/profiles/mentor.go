package profiles

import (
	"time"

	"github.com/lib/pq"

	"eduvibe-backend/models/users"
)

type Mentor struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	UserID                 uint           `gorm:"uniqueIndex;not null" json:"userId"`
	User                   users.User     `json:"user"`
	FullName               string         `gorm:"not null" json:"fullName"`
	Age                    int            `json:"age"`
	ContactNumber          string         `json:"contactNumber"`
	Bio                    string         `gorm:"type:text" json:"bio"`
	ProfessionalRole       string         `gorm:"not null" json:"professionalRole"`
	Subjects               pq.StringArray `gorm:"type:text[]" json:"subjects"`
	ExperienceYears        int            `gorm:"default:0" json:"experienceYears"`
	PreferredStudentLevels pq.StringArray `gorm:"type:text[]" json:"preferredStudentLevels"`
	LinkedinURL            string         `json:"linkedinUrl,omitempty"`
	PortfolioURL           string         `json:"portfolioUrl,omitempty"`
	RatePerSession         float64        `gorm:"not null" json:"ratePerSession"`
	Currency               string         `gorm:"default:USD" json:"currency"`
	AvailableHours         pq.StringArray `gorm:"type:text[]" json:"availableHours"` // например ["09:00-12:00", "14:00-17:00"]
	Timezone               string         `gorm:"default:UTC" json:"timezone"`
	TotalSessions          int            `gorm:"default:0" json:"totalSessions"`
	TotalEarnings          float64        `gorm:"default:0" json:"-"`
	AverageRating          float64        `gorm:"index" json:"averageRating,omitempty"`
	TotalReviews           int            `gorm:"default:0" json:"totalReviews"`
	IsVerified             bool           `gorm:"index;default:false" json:"isVerified"`
	IsAvailable            bool           `gorm:"index;default:true" json:"isAvailable"`
	Specializations        pq.StringArray `gorm:"type:text[]" json:"specializations"`
	Languages              pq.StringArray `gorm:"type:text[]" json:"languages"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}
