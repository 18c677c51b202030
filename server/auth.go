package server

import (
	"net/http"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/blog"
	"github.com/Luismorlan/yatube/server/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// safeNext only accepts local absolute paths, anything else lands on the
// index page.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func (s *Server) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login", LoginView{
		Form: FormView{Fields: map[string]string{"username": ""}},
		Next: safeNext(c.Query("next")),
	})
}

// Login checks the credentials and stores a session token in a cookie.
func (s *Server) Login(c *gin.Context) {
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	next = safeNext(next)

	var input blog.UserInput
	if err := c.ShouldBind(&input); err != nil {
		renderError(c, err)
		return
	}
	user, err := s.Blog.Authenticate(c.Request.Context(), input)
	if errors.Is(err, apperrors.ErrValidation) {
		render(c, http.StatusBadRequest, "login", LoginView{
			Form: FormView{Fields: map[string]string{"username": input.Username}, Errors: apperrors.Fields(err)},
			Next: next,
		})
		return
	}
	if err != nil {
		renderError(c, err)
		return
	}

	token, err := s.Auth.IssueToken(user.Username)
	if err != nil {
		renderError(c, errors.Wrap(err, "issue session token"))
		return
	}
	c.SetCookie(middlewares.TokenCookie, token, int(s.Auth.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, next)
}

func (s *Server) Logout(c *gin.Context) {
	c.SetCookie(middlewares.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
