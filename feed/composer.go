package feed

import (
	"context"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/paginator"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// newestFirst orders by creation time and falls back to row identity, so
// pagination stays deterministic for posts created within the same instant.
const newestFirst = "posts.created_at DESC, posts.id DESC"

// Feed is one page of posts for a viewing context. Group and Author are only
// set for the group and profile scopes.
type Feed struct {
	Posts     []*model.Post
	Page      paginator.Page
	Group     *model.Group
	Author    *model.User
	Following bool
}

// Composer answers which posts a view shows.
type Composer struct {
	DB      *gorm.DB
	PerPage int
}

func NewComposer(db *gorm.DB, perPage int) *Composer {
	if perPage <= 0 {
		perPage = paginator.DefaultPerPage
	}
	return &Composer{DB: db, PerPage: perPage}
}

// Index returns all posts.
func (c *Composer) Index(ctx context.Context, page string) (*Feed, error) {
	feed := &Feed{}
	err := c.paginate(ctx, c.DB.WithContext(ctx).Model(&model.Post{}), page, feed)
	if err != nil {
		return nil, errors.Wrap(err, "index feed")
	}
	return feed, nil
}

// Group returns posts published under the group with the given slug.
func (c *Composer) Group(ctx context.Context, slug string, page string) (*Feed, error) {
	var group model.Group
	res := c.DB.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&group)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "group feed")
	}
	if res.RowsAffected != 1 {
		return nil, apperrors.NotFoundf("group %q", slug)
	}

	feed := &Feed{Group: &group}
	query := c.DB.WithContext(ctx).Model(&model.Post{}).Where("posts.group_id = ?", group.Id)
	if err := c.paginate(ctx, query, page, feed); err != nil {
		return nil, errors.Wrapf(err, "group feed %q", slug)
	}
	return feed, nil
}

// Profile returns posts written by username. Following reports whether viewer
// follows that author, it's always false for anonymous viewers.
func (c *Composer) Profile(ctx context.Context, viewer *model.User, username string, page string) (*Feed, error) {
	var author model.User
	res := c.DB.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&author)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "profile feed")
	}
	if res.RowsAffected != 1 {
		return nil, apperrors.NotFoundf("user %q", username)
	}

	feed := &Feed{Author: &author}
	if viewer != nil {
		var edges int64
		err := c.DB.WithContext(ctx).Model(&model.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer.Id, author.Id).
			Count(&edges).Error
		if err != nil {
			return nil, errors.Wrap(err, "profile feed following")
		}
		feed.Following = edges > 0
	}

	query := c.DB.WithContext(ctx).Model(&model.Post{}).Where("posts.author_id = ?", author.Id)
	if err := c.paginate(ctx, query, page, feed); err != nil {
		return nil, errors.Wrapf(err, "profile feed %q", username)
	}
	return feed, nil
}

// Follow returns posts of every author viewer follows.
func (c *Composer) Follow(ctx context.Context, viewer *model.User, page string) (*Feed, error) {
	if viewer == nil {
		return nil, errors.New("follow feed requires a viewer")
	}
	authors := c.DB.WithContext(ctx).Model(&model.Follow{}).Select("author_id").Where("user_id = ?", viewer.Id)
	query := c.DB.WithContext(ctx).Model(&model.Post{}).Where("posts.author_id IN (?)", authors)

	feed := &Feed{}
	if err := c.paginate(ctx, query, page, feed); err != nil {
		return nil, errors.Wrapf(err, "follow feed of %q", viewer.Username)
	}
	return feed, nil
}

// paginate counts query, resolves the requested page and loads its posts into
// feed.
func (c *Composer) paginate(ctx context.Context, query *gorm.DB, page string, feed *Feed) error {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return err
	}
	feed.Page = paginator.New(int(count), c.PerPage).GetPage(page)
	feed.Posts = []*model.Post{}
	if feed.Page.Limit == 0 {
		return nil
	}

	Log.WithContext(ctx).Debug("load posts page ", feed.Page.Number, " of ", feed.Page.NumPages)
	return query.Session(&gorm.Session{}).
		Preload("Author").
		Preload("Group").
		Order(newestFirst).
		Offset(feed.Page.Offset).
		Limit(feed.Page.Limit).
		Find(&feed.Posts).Error
}
