package utils

import (
	"testing"
	"time"

	"github.com/Luismorlan/yatube/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// create user with username, do sanity checks and returns it
func TestCreateUserAndValidate(t *testing.T, username string, db *gorm.DB) *model.User {
	t.Helper()
	user := model.User{Username: username}
	require.NoError(t, db.Create(&user).Error)
	require.NotZero(t, user.Id)
	require.Truef(t, time.Now().UnixNano() >= user.CreatedAt.UnixNano(), "time created wrong")
	return &user
}

// create group with slug, do sanity checks and returns it
func TestCreateGroupAndValidate(t *testing.T, title string, slug string, db *gorm.DB) *model.Group {
	t.Helper()
	group := model.Group{Title: title, Slug: slug, Description: "description of " + title}
	require.NoError(t, db.Create(&group).Error)
	require.NotZero(t, group.Id)
	return &group
}

// create post authored by author, optionally in group, do sanity checks and
// returns it
func TestCreatePostAndValidate(t *testing.T, text string, author *model.User, group *model.Group, db *gorm.DB) *model.Post {
	t.Helper()
	post := model.Post{Text: text, AuthorID: author.Id}
	if group != nil {
		post.GroupID = &group.Id
	}
	require.NoError(t, db.Create(&post).Error)
	require.NotZero(t, post.Id)
	require.Equal(t, text, post.Text)
	return &post
}

// create n posts in creation order, the last one is the newest
func TestCreatePostsAndValidate(t *testing.T, n int, author *model.User, group *model.Group, db *gorm.DB) []*model.Post {
	t.Helper()
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, TestCreatePostAndValidate(t, "post text", author, group, db))
	}
	return posts
}

// create follow edge user -> author, do sanity checks
func TestUserFollowAuthorAndValidate(t *testing.T, user *model.User, author *model.User, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Follow{UserID: user.Id, AuthorID: author.Id}).Error)
	var count int64
	db.Model(&model.Follow{}).Where("user_id = ? AND author_id = ?", user.Id, author.Id).Count(&count)
	require.Equal(t, int64(1), count)
}

// PostIds maps posts to their ids, keeping order.
func PostIds(posts []*model.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Id)
	}
	return ids
}
