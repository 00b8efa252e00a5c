package models

import (
	"time"
)

// User represents the users table
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Password    string     `gorm:"column:password;size:255;not null" json:"-"`
	DisplayName *string    `gorm:"column:display_name;size:100" json:"display_name,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DateJoined  time.Time  `gorm:"column:date_joined;autoCreateTime" json:"date_joined"`
	LastLogin   *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`

	Settings *UserSettings `gorm:"foreignKey:UserID" json:"settings,omitempty"`
}

func (User) TableName() string {
	return "users"
}
