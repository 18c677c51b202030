package model

import "time"

/*

Comment is a piece of text a user leaves on a post, immutable once created

Id: primary key
CreatedAt: time when entity is created
PostID:
Post: commented post, "belongs-to" relation
AuthorID:
Author: user who wrote the comment, "belongs-to" relation
Text: comment body in plain text

*/

type Comment struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	PostID    uint   `gorm:"index;not null"`
	Post      *Post  `json:"-"`
	AuthorID  uint   `gorm:"not null"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text      string `gorm:"type:text;not null"`
}

func (c Comment) AuthorUsername() string {
	return c.Author.Username
}
