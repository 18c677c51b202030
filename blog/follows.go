package blog

import (
	"context"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	"github.com/pkg/errors"
)

// Follow makes current follow the author named username and returns that
// author. Following yourself is silently ignored and following twice is a
// no-op.
func (s *Service) Follow(ctx context.Context, current *model.User, username string) (*model.User, error) {
	author, err := s.UserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if current.Id == author.Id {
		return author, nil
	}
	edge := model.Follow{UserID: current.Id, AuthorID: author.Id}
	err = s.DB.WithContext(ctx).
		Where(&model.Follow{UserID: current.Id, AuthorID: author.Id}).
		FirstOrCreate(&edge).Error
	if err != nil {
		return nil, errors.Wrapf(err, "%s follow %s", current.Username, username)
	}
	return author, nil
}

// Unfollow removes the edge from current to the author named username. It
// fails with ErrNotFound when there is no such edge.
func (s *Service) Unfollow(ctx context.Context, current *model.User, username string) error {
	author, err := s.UserByUsername(ctx, username)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", current.Id, author.Id).
		Delete(&model.Follow{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "%s unfollow %s", current.Username, username)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("%s does not follow %s", current.Username, username)
	}
	return nil
}

// FollowedAuthorIds lists ids of every author user follows.
func (s *Service) FollowedAuthorIds(ctx context.Context, user *model.User) ([]uint, error) {
	ids := []uint{}
	err := s.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("user_id = ?", user.Id).
		Order("author_id").
		Pluck("author_id", &ids).Error
	return ids, errors.Wrap(err, "followed authors")
}

// FollowCounts returns how many users follow user and how many user follows.
func (s *Service) FollowCounts(ctx context.Context, user *model.User) (followers int64, following int64, err error) {
	db := s.DB.WithContext(ctx).Model(&model.Follow{})
	if err = db.Where("author_id = ?", user.Id).Count(&followers).Error; err != nil {
		return 0, 0, errors.Wrap(err, "count followers")
	}
	db = s.DB.WithContext(ctx).Model(&model.Follow{})
	if err = db.Where("user_id = ?", user.Id).Count(&following).Error; err != nil {
		return 0, 0, errors.Wrap(err, "count following")
	}
	return followers, following, nil
}
