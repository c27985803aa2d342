package bookings

import (
	"time"

	"eduvibe-backend/models/profiles"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

type Booking struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	StudentID          uint             `gorm:"index;not null" json:"studentId"`
	Student            profiles.Student `json:"student,omitempty"`
	MentorID           uint             `gorm:"index;not null" json:"mentorId"`
	Mentor             profiles.Mentor  `json:"mentor,omitempty"`
	SessionDateTime    time.Time        `gorm:"index;not null" json:"sessionDateTime"`
	DurationMinutes    int              `gorm:"default:60" json:"durationMinutes"`
	PaymentProofURL    string           `gorm:"not null" json:"paymentProofUrl"`
	Status             string           `gorm:"index;default:pending" json:"status"`
	TotalAmount        float64          `gorm:"not null" json:"totalAmount"`
	Currency           string           `gorm:"default:USD" json:"currency"`
	MeetingLink        string           `json:"meetingLink,omitempty"`
	SessionNotes       string           `gorm:"type:text" json:"sessionNotes,omitempty"`
	StudentRating      *int             `json:"studentRating,omitempty"`
	MentorRating       *int             `json:"mentorRating,omitempty"`
	StudentReview      string           `json:"studentReview,omitempty"`
	MentorReview       string           `json:"mentorReview,omitempty"`
	CancelledBy        *uint            `json:"cancelledBy,omitempty"`
	CancellationReason string           `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

// CanCancel — завершённые и уже отменённые сессии отменить нельзя.
func (b *Booking) CanCancel() bool {
	return b.Status != StatusCompleted && b.Status != StatusCancelled
}
