package server

import (
	"time"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/feed"
	"github.com/Luismorlan/yatube/model"
	"github.com/Luismorlan/yatube/paginator"
	"github.com/jinzhu/copier"
)

// Views are the documents pages render. They never expose gorm models
// directly.

type PostView struct {
	Id             uint      `json:"id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	Image          string    `json:"-"`
	ImageUrl       string    `json:"image_url,omitempty"`
	AuthorUsername string    `json:"author"`
	GroupSlug      string    `json:"group,omitempty"`
}

type CommentView struct {
	Id             uint      `json:"id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author"`
}

type GroupView struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type AuthorView struct {
	Username  string `json:"username"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
}

type PageView struct {
	paginator.Page
	Posts []PostView `json:"posts"`
}

// FormView describes a form to fill in: current values and per-field errors.
type FormView struct {
	Fields map[string]string     `json:"fields"`
	Errors apperrors.FieldErrors `json:"errors,omitempty"`
}

type IndexView struct {
	PageObj PageView `json:"page_obj"`
}

type GroupPostsView struct {
	Group   GroupView `json:"group"`
	PageObj PageView  `json:"page_obj"`
}

type ProfileView struct {
	Author    AuthorView `json:"author"`
	PageObj   PageView   `json:"page_obj"`
	Following bool       `json:"following"`
}

type FollowIndexView struct {
	PageObj PageView `json:"page_obj"`
}

type PostDetailView struct {
	Post     PostView      `json:"post"`
	Comments []CommentView `json:"comments"`
	Form     FormView      `json:"form"`
}

type PostFormView struct {
	Form   FormView    `json:"form"`
	Groups []GroupView `json:"groups"`
	IsEdit bool        `json:"is_edit"`
	PostId uint        `json:"post_id,omitempty"`
}

type LoginView struct {
	Form FormView `json:"form"`
	Next string   `json:"next"`
}

type ErrorView struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) postView(post *model.Post) PostView {
	var view PostView
	if err := copier.Copy(&view, post); err != nil {
		view = PostView{
			Id:             post.Id,
			Text:           post.Text,
			CreatedAt:      post.CreatedAt,
			Image:          post.Image,
			AuthorUsername: post.AuthorUsername(),
			GroupSlug:      post.GroupSlug(),
		}
	}
	if view.Image != "" && s.Images != nil {
		view.ImageUrl = s.Images.GetUrlFromKey(view.Image)
	}
	return view
}

func (s *Server) pageView(f *feed.Feed) PageView {
	view := PageView{Page: f.Page, Posts: make([]PostView, 0, len(f.Posts))}
	for _, p := range f.Posts {
		view.Posts = append(view.Posts, s.postView(p))
	}
	return view
}

func commentViews(comments []*model.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		var view CommentView
		if err := copier.Copy(&view, c); err != nil {
			view = CommentView{Id: c.Id, Text: c.Text, CreatedAt: c.CreatedAt, AuthorUsername: c.AuthorUsername()}
		}
		views = append(views, view)
	}
	return views
}

func groupView(g *model.Group) GroupView {
	var view GroupView
	if g == nil {
		return view
	}
	if err := copier.Copy(&view, g); err != nil {
		view = GroupView{Title: g.Title, Slug: g.Slug, Description: g.Description}
	}
	return view
}

func blankCommentForm() FormView {
	return FormView{Fields: map[string]string{"text": ""}}
}
