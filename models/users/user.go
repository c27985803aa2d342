package users

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	Role      string `json:"role" gorm:"not null;default:student"` // student или mentor
	AvatarURL string `json:"avatarUrl"`
	Provider  string `json:"provider" gorm:"default:local"` // Обычная авторизация или Google
	GoogleID  string `json:"-"`
	IsActive  bool   `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
