package server

import (
	"net/http"

	"github.com/Luismorlan/yatube/blog"
	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/feed"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/server/middlewares"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"
)

const (
	LoginPath  = "/auth/login/"
	MediaPath  = "/media/"
	maxFormMem = 8 << 20
)

// Server holds the dependencies of every page handler. It serves
// dependency injection for the web app, tests build it with fakes.
type Server struct {
	Composer *feed.Composer
	Blog     *blog.Service
	Cache    cache.PageCache
	Images   file_store.ImageStore
	Auth     *middlewares.Authenticator

	// refresh lets only one request per cache key rebuild the index page
	// while others wait for its result.
	refresh singleflight.Group
}

func NewServer(composer *feed.Composer, blogService *blog.Service, pageCache cache.PageCache, images file_store.ImageStore, auth *middlewares.Authenticator) *Server {
	return &Server{
		Composer: composer,
		Blog:     blogService,
		Cache:    pageCache,
		Images:   images,
		Auth:     auth,
	}
}

// RegisterRoutes binds every page to router. Pages that need a user redirect
// anonymous requests to the login page.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	router.MaxMultipartMemory = maxFormMem
	router.Use(middlewares.Session(s.Auth))

	router.GET("/", s.Index)
	router.GET("/group/:slug/", s.GroupPosts)
	router.GET("/profile/:username/", s.Profile)
	router.GET("/posts/:post_id/", s.PostDetail)

	router.GET(LoginPath, s.LoginForm)
	router.POST(LoginPath, s.Login)
	router.GET("/auth/logout/", s.Logout)

	if local, ok := s.Images.(*file_store.LocalImageStore); ok {
		router.Static(MediaPath, local.BasePath())
	}

	auth := router.Group("/", middlewares.LoginRequired(LoginPath))
	auth.GET("/create/", s.PostCreateForm)
	auth.POST("/create/", s.PostCreate)
	auth.GET("/posts/:post_id/edit/", s.PostEditForm)
	auth.POST("/posts/:post_id/edit/", s.PostEdit)
	auth.POST("/posts/:post_id/comment/", s.AddComment)
	auth.POST("/posts/:post_id/delete/", s.PostDelete)
	auth.GET("/follow/", s.FollowIndex)
	auth.GET("/profile/:username/follow/", s.ProfileFollow)
	auth.POST("/profile/:username/follow/", s.ProfileFollow)
	auth.GET("/profile/:username/unfollow/", s.ProfileUnfollow)
	auth.POST("/profile/:username/unfollow/", s.ProfileUnfollow)

	router.NoRoute(func(c *gin.Context) {
		render(c, http.StatusNotFound, "error", ErrorView{Status: http.StatusNotFound, Message: http.StatusText(http.StatusNotFound)})
	})
}

// NewRouter returns a bare gin engine with every page registered, callers add
// logging, recovery and tracing middlewares as they see fit.
func (s *Server) NewRouter() *gin.Engine {
	router := gin.New()
	s.RegisterRoutes(router)
	return router
}
