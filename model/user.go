package model

import "time"

/*

User is an author and reader of posts

Id: primary key
CreatedAt: time when entity is created
Username: unique public handle, used in profile urls
PasswordHash: bcrypt hash of user's password, never rendered

Posts: posts authored by this user, "has-many" relation

*/

type User struct {
	Id           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	Username     string  `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string  `json:"-"`
	Posts        []*Post `gorm:"foreignKey:AuthorID"`
}
