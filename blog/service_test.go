package blog

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func prepareTestService(t *testing.T) (*Service, *gorm.DB, *file_store.FakeImageStore) {
	t.Helper()
	db, _ := utils.CreateTempDB(t)
	images := file_store.NewFakeImageStore()
	return NewService(db, images), db, images
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(m).Count(&count).Error)
	return count
}

func TestCreatePost(t *testing.T) {
	s, db, images := prepareTestService(t)
	ctx := context.Background()
	author := utils.TestCreateUserAndValidate(t, "auth", db)
	group := utils.TestCreateGroupAndValidate(t, "group", "slug", db)

	t.Run("with group and image", func(t *testing.T) {
		before := countRows(t, db, &model.Post{})
		post, err := s.CreatePost(ctx, author, PostInput{
			Text:      "  text from the form ",
			GroupSlug: "slug",
			Image:     &ImageUpload{FileName: "small.gif", Body: strings.NewReader("GIF89a")},
		})
		require.NoError(t, err)
		assert.Equal(t, before+1, countRows(t, db, &model.Post{}))
		assert.Equal(t, "text from the form", post.Text)
		require.NotNil(t, post.GroupID)
		assert.Equal(t, group.Id, *post.GroupID)
		assert.Equal(t, []byte("GIF89a"), images.Images[post.Image])
	})

	t.Run("without group", func(t *testing.T) {
		post, err := s.CreatePost(ctx, author, PostInput{Text: "plain"})
		require.NoError(t, err)
		assert.Nil(t, post.GroupID)
		assert.Empty(t, post.Image)
	})

	t.Run("empty text", func(t *testing.T) {
		before := countRows(t, db, &model.Post{})
		_, err := s.CreatePost(ctx, author, PostInput{Text: "   "})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Equal(t, apperrors.FieldErrors{"text": {"This field is required."}}, apperrors.Fields(err))
		assert.Equal(t, before, countRows(t, db, &model.Post{}))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := s.CreatePost(ctx, author, PostInput{Text: "text", GroupSlug: "nope"})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Contains(t, apperrors.Fields(err), "group")
	})

	t.Run("no author", func(t *testing.T) {
		_, err := s.CreatePost(ctx, nil, PostInput{Text: "text"})
		assert.Error(t, err)
	})

	t.Run("failed insert discards the image", func(t *testing.T) {
		stored := len(images.Images)
		before := countRows(t, db, &model.Post{})
		ghost := &model.User{Id: 9999, Username: "ghost"}
		_, err := s.CreatePost(ctx, ghost, PostInput{
			Text:  "text",
			Image: &ImageUpload{FileName: "orphan.gif", Body: strings.NewReader("GIF89a")},
		})
		require.Error(t, err)
		assert.Equal(t, before, countRows(t, db, &model.Post{}))
		assert.Len(t, images.Images, stored)
	})
}

func TestEditPost(t *testing.T) {
	s, db, _ := prepareTestService(t)
	ctx := context.Background()
	author := utils.TestCreateUserAndValidate(t, "auth", db)
	other := utils.TestCreateUserAndValidate(t, "other", db)
	group := utils.TestCreateGroupAndValidate(t, "group", "slug", db)
	post := utils.TestCreatePostAndValidate(t, "original text", author, group, db)

	t.Run("non author is forbidden", func(t *testing.T) {
		_, err := s.EditPost(ctx, other, post.Id, PostInput{Text: "hijacked"})
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))

		stored, err := s.GetPost(ctx, post.Id)
		require.NoError(t, err)
		assert.Equal(t, "original text", stored.Text)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := s.EditPost(ctx, author, post.Id+100, PostInput{Text: "text"})
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("author edits text and drops group", func(t *testing.T) {
		before := countRows(t, db, &model.Post{})
		edited, err := s.EditPost(ctx, author, post.Id, PostInput{Text: "edited text"})
		require.NoError(t, err)
		assert.Equal(t, "edited text", edited.Text)
		assert.Nil(t, edited.GroupID)
		assert.Equal(t, before, countRows(t, db, &model.Post{}))
	})

	t.Run("empty text keeps post", func(t *testing.T) {
		_, err := s.EditPost(ctx, author, post.Id, PostInput{Text: ""})
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		stored, _ := s.GetPost(ctx, post.Id)
		assert.Equal(t, "edited text", stored.Text)
	})
}

func TestDeletePostCascadesComments(t *testing.T) {
	s, db, _ := prepareTestService(t)
	ctx := context.Background()
	author := utils.TestCreateUserAndValidate(t, "auth", db)
	reader := utils.TestCreateUserAndValidate(t, "reader", db)
	post := utils.TestCreatePostAndValidate(t, "to delete", author, nil, db)
	kept := utils.TestCreatePostAndValidate(t, "to keep", author, nil, db)

	for _, p := range []*model.Post{post, post, kept} {
		_, err := s.AddComment(ctx, reader, p.Id, CommentInput{Text: "nice"})
		require.NoError(t, err)
	}

	err := s.DeletePost(ctx, reader, post.Id)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	require.NoError(t, s.DeletePost(ctx, author, post.Id))
	_, err = s.GetPost(ctx, post.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, int64(1), countRows(t, db, &model.Comment{}))

	err = s.DeletePost(ctx, author, post.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAddComment(t *testing.T) {
	s, db, _ := prepareTestService(t)
	ctx := context.Background()
	author := utils.TestCreateUserAndValidate(t, "auth", db)
	post := utils.TestCreatePostAndValidate(t, "post", author, nil, db)

	before := countRows(t, db, &model.Comment{})
	comment, err := s.AddComment(ctx, author, post.Id, CommentInput{Text: "first!"})
	require.NoError(t, err)
	assert.Equal(t, before+1, countRows(t, db, &model.Comment{}))
	assert.Equal(t, post.Id, comment.PostID)
	assert.Equal(t, author.Id, comment.AuthorID)

	_, err = s.AddComment(ctx, author, post.Id+100, CommentInput{Text: "lost"})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = s.AddComment(ctx, author, post.Id, CommentInput{Text: " "})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	assert.Equal(t, before+1, countRows(t, db, &model.Comment{}))
}

func TestPostDetail(t *testing.T) {
	s, db, _ := prepareTestService(t)
	ctx := context.Background()
	author := utils.TestCreateUserAndValidate(t, "auth", db)
	reader := utils.TestCreateUserAndValidate(t, "reader", db)
	group := utils.TestCreateGroupAndValidate(t, "group", "slug", db)
	post := utils.TestCreatePostAndValidate(t, "post", author, group, db)

	var want []string
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.AddComment(ctx, reader, post.Id, CommentInput{Text: text})
		require.NoError(t, err)
		want = append(want, text)
	}

	detail, err := s.PostDetail(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, "auth", detail.Post.Author.Username)
	assert.Equal(t, "slug", detail.Post.GroupSlug())

	var got []string
	for _, c := range detail.Comments {
		got = append(got, c.Text)
		assert.Equal(t, "reader", c.AuthorUsername())
	}
	assert.Empty(t, cmp.Diff(want, got))

	_, err = s.PostDetail(ctx, post.Id+100)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
