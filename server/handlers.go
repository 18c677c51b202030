package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/blog"
	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/server/middlewares"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const indexRefreshTimeout = 10 * time.Second

func profileURL(username string) string {
	return fmt.Sprintf("/profile/%s/", username)
}

func postDetailURL(postId uint) string {
	return fmt.Sprintf("/posts/%d/", postId)
}

// postIdParam parses the :post_id path segment. Anything that isn't a
// positive integer can't name a post.
func postIdParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFoundf("post %q", c.Param("post_id"))
	}
	return uint(id), nil
}

// indexCacheKey normalizes the requested page so "", "1" and "abc" share one
// cache entry.
func indexCacheKey(page string) string {
	n, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s:%d", cache.IndexKeyPrefix, n)
}

// Index renders every post, newest first. The rendered page is cached and
// served as is until it expires or the cache is invalidated.
func (s *Server) Index(c *gin.Context) {
	ctx := c.Request.Context()
	page := c.Query("page")
	key := indexCacheKey(page)

	body, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		Log.WithField("key", key).Warn("page cache read failed: ", err)
	}
	if ok {
		c.Data(http.StatusOK, pageContentType, body)
		return
	}

	ch := s.refresh.DoChan(key, func() (interface{}, error) {
		// Shared by every request waiting on key, so it runs detached from
		// any one of them.
		ctx, cancel := context.WithTimeout(context.Background(), indexRefreshTimeout)
		defer cancel()
		f, err := s.Composer.Index(ctx, page)
		if err != nil {
			return nil, err
		}
		body, err := renderBytes("index", IndexView{PageObj: s.pageView(f)})
		if err != nil {
			return nil, err
		}
		if err := s.Cache.Set(ctx, key, body); err != nil {
			Log.WithField("key", key).Warn("page cache write failed: ", err)
		}
		return body, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			renderError(c, res.Err)
			return
		}
		c.Data(http.StatusOK, pageContentType, res.Val.([]byte))
	case <-ctx.Done():
		Log.WithField("key", key).Debug("client left while index page refreshes")
		c.Abort()
	}
}

func (s *Server) GroupPosts(c *gin.Context) {
	f, err := s.Composer.Group(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "group_list", GroupPostsView{
		Group:   groupView(f.Group),
		PageObj: s.pageView(f),
	})
}

func (s *Server) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	f, err := s.Composer.Profile(ctx, middlewares.CurrentUser(c), c.Param("username"), c.Query("page"))
	if err != nil {
		renderError(c, err)
		return
	}
	followers, following, err := s.Blog.FollowCounts(ctx, f.Author)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "profile", ProfileView{
		Author:    AuthorView{Username: f.Author.Username, Followers: followers, Following: following},
		PageObj:   s.pageView(f),
		Following: f.Following,
	})
}

func (s *Server) renderPostDetail(c *gin.Context, status int, postId uint, form FormView) {
	detail, err := s.Blog.PostDetail(c.Request.Context(), postId)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, status, "post_detail", PostDetailView{
		Post:     s.postView(detail.Post),
		Comments: commentViews(detail.Comments),
		Form:     form,
	})
}

func (s *Server) PostDetail(c *gin.Context) {
	postId, err := postIdParam(c)
	if err != nil {
		renderError(c, err)
		return
	}
	s.renderPostDetail(c, http.StatusOK, postId, blankCommentForm())
}

func (s *Server) renderPostForm(c *gin.Context, status int, form FormView, postId uint) {
	var groups []model.Group
	if err := s.Blog.DB.WithContext(c.Request.Context()).Order("title").Find(&groups).Error; err != nil {
		renderError(c, errors.Wrap(err, "list groups"))
		return
	}
	views := make([]GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, groupView(&groups[i]))
	}
	render(c, status, "create_post", PostFormView{
		Form:   form,
		Groups: views,
		IsEdit: postId != 0,
		PostId: postId,
	})
}

// bindPostInput reads the post form, including an optional "image" file.
func bindPostInput(c *gin.Context) (blog.PostInput, func(), error) {
	var input blog.PostInput
	noop := func() {}
	if err := c.ShouldBind(&input); err != nil {
		return input, noop, &apperrors.ValidationError{Fields: apperrors.FieldErrors{"__all__": {err.Error()}}}
	}
	fh, err := c.FormFile("image")
	if err != nil {
		// no file or not a multipart form, both mean no image
		return input, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return input, noop, errors.Wrap(err, "open uploaded image")
	}
	input.Image = &blog.ImageUpload{FileName: fh.Filename, Body: f}
	return input, func() { f.Close() }, nil
}

func postFormFields(input blog.PostInput) map[string]string {
	return map[string]string{"text": input.Text, "group": input.GroupSlug}
}

func (s *Server) PostCreateForm(c *gin.Context) {
	s.renderPostForm(c, http.StatusOK, FormView{Fields: postFormFields(blog.PostInput{})}, 0)
}

func (s *Server) PostCreate(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	input, closeImage, err := bindPostInput(c)
	defer closeImage()
	if err == nil {
		_, err = s.Blog.CreatePost(c.Request.Context(), user, input)
	}
	if errors.Is(err, apperrors.ErrValidation) {
		s.renderPostForm(c, http.StatusBadRequest, FormView{Fields: postFormFields(input), Errors: apperrors.Fields(err)}, 0)
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

func (s *Server) PostEditForm(c *gin.Context) {
	postId, err := postIdParam(c)
	if err != nil {
		renderError(c, err)
		return
	}
	post, err := s.Blog.GetPost(c.Request.Context(), postId)
	if err != nil {
		renderError(c, err)
		return
	}
	if middlewares.CurrentUser(c).Id != post.AuthorID {
		c.Redirect(http.StatusFound, postDetailURL(postId))
		return
	}
	s.renderPostForm(c, http.StatusOK, FormView{Fields: postFormFields(blog.PostInput{Text: post.Text, GroupSlug: post.GroupSlug()})}, postId)
}

// PostEdit saves the post form. A user who isn't the author is sent to the
// read-only detail page and nothing changes.
func (s *Server) PostEdit(c *gin.Context) {
	postId, err := postIdParam(c)
	if err != nil {
		renderError(c, err)
		return
	}
	input, closeImage, err := bindPostInput(c)
	defer closeImage()
	if err == nil {
		_, err = s.Blog.EditPost(c.Request.Context(), middlewares.CurrentUser(c), postId, input)
	}
	switch {
	case err == nil, errors.Is(err, apperrors.ErrForbidden):
		c.Redirect(http.StatusFound, postDetailURL(postId))
	case errors.Is(err, apperrors.ErrValidation):
		s.renderPostForm(c, http.StatusBadRequest, FormView{Fields: postFormFields(input), Errors: apperrors.Fields(err)}, postId)
	default:
		renderError(c, err)
	}
}

func (s *Server) PostDelete(c *gin.Context) {
	postId, err := postIdParam(c)
	if err != nil {
		renderError(c, err)
		return
	}
	user := middlewares.CurrentUser(c)
	err = s.Blog.DeletePost(c.Request.Context(), user, postId)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, profileURL(user.Username))
	case errors.Is(err, apperrors.ErrForbidden):
		c.Redirect(http.StatusFound, postDetailURL(postId))
	default:
		renderError(c, err)
	}
}

func (s *Server) AddComment(c *gin.Context) {
	postId, err := postIdParam(c)
	if err != nil {
		renderError(c, err)
		return
	}
	var input blog.CommentInput
	if err := c.ShouldBind(&input); err != nil {
		renderError(c, err)
		return
	}
	_, err = s.Blog.AddComment(c.Request.Context(), middlewares.CurrentUser(c), postId, input)
	if errors.Is(err, apperrors.ErrValidation) {
		s.renderPostDetail(c, http.StatusBadRequest, postId, FormView{
			Fields: map[string]string{"text": input.Text},
			Errors: apperrors.Fields(err),
		})
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postDetailURL(postId))
}

func (s *Server) FollowIndex(c *gin.Context) {
	f, err := s.Composer.Follow(c.Request.Context(), middlewares.CurrentUser(c), c.Query("page"))
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, "follow", FollowIndexView{PageObj: s.pageView(f)})
}

func (s *Server) ProfileFollow(c *gin.Context) {
	username := c.Param("username")
	if _, err := s.Blog.Follow(c.Request.Context(), middlewares.CurrentUser(c), username); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

func (s *Server) ProfileUnfollow(c *gin.Context) {
	username := c.Param("username")
	if err := s.Blog.Unfollow(c.Request.Context(), middlewares.CurrentUser(c), username); err != nil {
		renderError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}
