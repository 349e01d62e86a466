package model

import "time"

// User data model.
type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Email        string    `json:"email,omitempty" gorm:"size:320"`
	Created      time.Time `json:"created" gorm:"<-:create;autoCreateTime"`
}
