package model

import "time"

// Article data model. Created is written once by the datastore on insert
// and never updated.
type Article struct {
	ID      uint64    `json:"id" gorm:"primaryKey"`
	Title   string    `json:"title" gorm:"size:500;not null"`
	Body    string    `json:"body" gorm:"type:text;not null"`
	Created time.Time `json:"created" gorm:"<-:create;autoCreateTime;index"`
}
