package blog

import (
	"context"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GroupInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"required,max=100"`
	Description string `form:"description"`
}

func (s *Service) CreateGroup(ctx context.Context, input GroupInput) (*model.Group, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.TrimSpace(input.Slug)
	if err := s.validateStruct(input); err != nil {
		return nil, errors.Wrap(err, "create group")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.Group{}).Where("slug = ?", input.Slug).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "create group")
	}
	if count > 0 {
		return nil, fieldError("slug", "Group with this slug already exists.")
	}

	group := model.Group{Title: input.Title, Slug: input.Slug, Description: input.Description}
	if err := s.DB.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, errors.Wrap(err, "create group")
	}
	return &group, nil
}

// DeleteGroup removes a group. Its posts survive without a group.
func (s *Service) DeleteGroup(ctx context.Context, slug string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group model.Group
		res := tx.Where("slug = ?", slug).Limit(1).Find(&group)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "delete group %q", slug)
		}
		if res.RowsAffected != 1 {
			return apperrors.NotFoundf("group %q", slug)
		}
		detached := tx.Model(&model.Post{}).Where("group_id = ?", group.Id).Update("group_id", nil)
		if detached.Error != nil {
			return errors.Wrapf(detached.Error, "detach posts of group %q", slug)
		}
		if err := tx.Delete(&group).Error; err != nil {
			return errors.Wrapf(err, "delete group %q", slug)
		}
		Log.Info("group ", slug, " deleted, ", detached.RowsAffected, " posts detached")
		return nil
	})
}
