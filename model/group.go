package model

/*

Group is a named category posts can be published under

Id: primary key
Title: display name
Slug: unique identifier used in group urls
Description: free text shown on group page

Posts: posts in this group, "has-many" relation. Deleting a group keeps its
posts, their GroupID is set to NULL.

*/

type Group struct {
	Id          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"type:text"`
	Posts       []*Post
}
