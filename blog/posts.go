package blog

import (
	"context"
	"io"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageUpload is an image attached to a submitted post form.
type ImageUpload struct {
	FileName string
	Body     io.Reader
}

// PostInput is the post form. An empty GroupSlug means no group, a nil Image
// keeps the current image on edit.
type PostInput struct {
	Text      string       `form:"text" validate:"required"`
	GroupSlug string       `form:"group"`
	Image     *ImageUpload `form:"-" validate:"-"`
}

// PostDetail is a post with all of its comments, oldest first.
type PostDetail struct {
	Post     *model.Post
	Comments []*model.Comment
}

func (s *Service) cleanPostInput(ctx context.Context, input PostInput) (PostInput, *uint, error) {
	input.Text = strings.TrimSpace(input.Text)
	input.GroupSlug = strings.TrimSpace(input.GroupSlug)
	if err := s.validateStruct(input); err != nil {
		return input, nil, err
	}
	if input.GroupSlug == "" {
		return input, nil, nil
	}
	var group model.Group
	res := s.DB.WithContext(ctx).Where("slug = ?", input.GroupSlug).Limit(1).Find(&group)
	if res.Error != nil {
		return input, nil, res.Error
	}
	if res.RowsAffected != 1 {
		return input, nil, fieldError("group", "Select a valid choice.")
	}
	return input, &group.Id, nil
}

func (s *Service) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	if image == nil {
		return "", nil
	}
	if s.Images == nil {
		return "", errors.New("image upload without an image store")
	}
	key, err := s.Images.Store(ctx, image.FileName, image.Body)
	return key, errors.Wrap(err, "store post image")
}

// discardImage removes an image stored for a post that was never saved.
func (s *Service) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Images.Delete(ctx, key); err != nil {
		Log.WithField("key", key).Warn("fail to discard orphan image: ", err)
	}
}

// CreatePost publishes a new post written by author.
func (s *Service) CreatePost(ctx context.Context, author *model.User, input PostInput) (*model.Post, error) {
	if author == nil {
		return nil, errors.New("create post requires an author")
	}
	input, groupId, err := s.cleanPostInput(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "create post")
	}
	imageKey, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	post := model.Post{
		Text:     input.Text,
		Image:    imageKey,
		AuthorID: author.Id,
		GroupID:  groupId,
		Author:   *author,
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		s.discardImage(ctx, imageKey)
		return nil, errors.Wrap(err, "create post")
	}
	Log.WithFields(logrus.Fields{"post_id": post.Id, "author": author.Username}).Info("post created")
	return &post, nil
}

// GetPost loads a post with its author and group.
func (s *Service) GetPost(ctx context.Context, postId uint) (*model.Post, error) {
	var post model.Post
	res := s.DB.WithContext(ctx).Preload("Author").Preload("Group").Where("id = ?", postId).Limit(1).Find(&post)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "get post %d", postId)
	}
	if res.RowsAffected != 1 {
		return nil, apperrors.NotFoundf("post %d", postId)
	}
	return &post, nil
}

// EditPost replaces text, group and optionally image of a post. Only the
// author may edit, anyone else gets ErrForbidden and the post is untouched.
func (s *Service) EditPost(ctx context.Context, user *model.User, postId uint, input PostInput) (*model.Post, error) {
	post, err := s.GetPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Id != post.AuthorID {
		return nil, apperrors.Forbiddenf("edit post %d", postId)
	}
	input, groupId, err := s.cleanPostInput(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "edit post %d", postId)
	}
	imageKey, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	post.Text = input.Text
	post.GroupID = groupId
	post.Group = nil
	if imageKey != "" {
		post.Image = imageKey
	}
	err = s.DB.WithContext(ctx).Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{"text": post.Text, "group_id": post.GroupID, "image": post.Image}).Error
	if err != nil {
		s.discardImage(ctx, imageKey)
		return nil, errors.Wrapf(err, "edit post %d", postId)
	}
	return s.GetPost(ctx, postId)
}

// DeletePost removes a post together with its comments. Only the author may
// delete.
func (s *Service) DeletePost(ctx context.Context, user *model.User, postId uint) error {
	post, err := s.GetPost(ctx, postId)
	if err != nil {
		return err
	}
	if user == nil || user.Id != post.AuthorID {
		return apperrors.Forbiddenf("delete post %d", postId)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postId).Delete(&model.Comment{}).Error; err != nil {
			return errors.Wrapf(err, "delete comments of post %d", postId)
		}
		return errors.Wrapf(tx.Delete(&model.Post{}, postId).Error, "delete post %d", postId)
	})
}

// PostDetail returns a post and every comment on it, unpaginated.
func (s *Service) PostDetail(ctx context.Context, postId uint) (*PostDetail, error) {
	post, err := s.GetPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	comments := []*model.Comment{}
	err = s.DB.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postId).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "comments of post %d", postId)
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}
