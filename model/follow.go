package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrSelfFollow is returned when a follow edge would point back at its own
// follower.
var ErrSelfFollow = errors.New("user cannot follow themselves")

/*

Follow is a directed edge, UserID follows AuthorID. The composite primary key
keeps (follower, author) unique.

UserID: follower
AuthorID: followed author
CreatedAt: time when relation is created

*/

type Follow struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	User      User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint `gorm:"primaryKey;autoIncrement:false;index"`
	Author    User `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time
}

func (f *Follow) BeforeCreate(db *gorm.DB) error {
	if f.UserID == f.AuthorID {
		return ErrSelfFollow
	}
	return nil
}
