package server

import (
	"testing"
	"time"

	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostView(t *testing.T) {
	s := &Server{Images: file_store.NewFakeImageStore()}
	created := time.Date(2021, 8, 8, 14, 0, 0, 0, time.UTC)
	view := s.postView(&model.Post{
		Id:        7,
		Text:      "hello",
		CreatedAt: created,
		Image:     "posts/a.gif",
		Author:    model.User{Username: "leo"},
		Group:     &model.Group{Slug: "cats"},
	})
	assert.Equal(t, PostView{
		Id:             7,
		Text:           "hello",
		CreatedAt:      created,
		Image:          "posts/a.gif",
		ImageUrl:       "/fake/posts/a.gif",
		AuthorUsername: "leo",
		GroupSlug:      "cats",
	}, view)

	assert.Empty(t, s.postView(&model.Post{Text: "no group"}).GroupSlug)
}

func TestCommentViews(t *testing.T) {
	created := time.Date(2021, 8, 8, 14, 0, 0, 0, time.UTC)
	views := commentViews([]*model.Comment{
		{Id: 1, Text: "first", CreatedAt: created, Author: model.User{Username: "max"}},
		{Id: 2, Text: "second", CreatedAt: created, Author: model.User{Username: "leo"}},
	})
	require.Len(t, views, 2)
	assert.Equal(t, CommentView{Id: 1, Text: "first", CreatedAt: created, AuthorUsername: "max"}, views[0])
	assert.Equal(t, "leo", views[1].AuthorUsername)
	assert.Empty(t, commentViews(nil))
}

func TestGroupView(t *testing.T) {
	view := groupView(&model.Group{Id: 3, Title: "Cats", Slug: "cats", Description: "meow"})
	assert.Equal(t, GroupView{Title: "Cats", Slug: "cats", Description: "meow"}, view)
	assert.Equal(t, GroupView{}, groupView(nil))
}
