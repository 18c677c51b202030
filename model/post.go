package model

import (
	"time"
)

/*

Post is a piece of content authored by a user

Id: primary key, also the tie-breaker for posts with equal CreatedAt
CreatedAt: time when entity is created, feeds are ordered by it (newest first)

Text: post body in plain text
Image: key of the attached image in the image store, empty if none
AuthorID:
Author: user who wrote the post, "belongs-to" relation, required
GroupID:
Group: group the post is published under, "belongs-to" relation, optional
Comments: comments on this post, "has-many" relation, deleted with the post

*/

type Post struct {
	Id        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Text      string    `gorm:"type:text;not null"`
	Image     string
	AuthorID  uint       `gorm:"index;not null"`
	Author    User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID   *uint      `gorm:"index"`
	Group     *Group     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Comments  []*Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AuthorUsername is read by copier when a post is mapped into a page view.
func (p Post) AuthorUsername() string {
	return p.Author.Username
}

func (p Post) GroupSlug() string {
	if p.Group == nil {
		return ""
	}
	return p.Group.Slug
}
