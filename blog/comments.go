package blog

import (
	"context"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

// AddComment attaches a comment by author to an existing post.
func (s *Service) AddComment(ctx context.Context, author *model.User, postId uint, input CommentInput) (*model.Comment, error) {
	if author == nil {
		return nil, errors.New("add comment requires an author")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", postId).Count(&count).Error; err != nil {
		return nil, errors.Wrapf(err, "add comment to post %d", postId)
	}
	if count == 0 {
		return nil, apperrors.NotFoundf("post %d", postId)
	}

	input.Text = strings.TrimSpace(input.Text)
	if err := s.validateStruct(input); err != nil {
		return nil, errors.Wrapf(err, "add comment to post %d", postId)
	}

	comment := model.Comment{
		PostID:   postId,
		AuthorID: author.Id,
		Author:   *author,
		Text:     input.Text,
	}
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(&comment).Error; err != nil {
		return nil, errors.Wrapf(err, "add comment to post %d", postId)
	}
	return &comment, nil
}
