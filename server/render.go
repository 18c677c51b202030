package server

import (
	"encoding/json"
	"net/http"

	"github.com/Luismorlan/yatube/apperrors"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const pageContentType = "application/json; charset=utf-8"

// document is the rendered form of every page, view names which page it is.
type document struct {
	View    string      `json:"view"`
	Context interface{} `json:"context"`
}

func renderBytes(view string, context interface{}) ([]byte, error) {
	return json.Marshal(document{View: view, Context: context})
}

func render(c *gin.Context, status int, view string, context interface{}) {
	body, err := renderBytes(view, context)
	if err != nil {
		renderError(c, err)
		return
	}
	c.Data(status, pageContentType, body)
}

// renderError writes the error page matching err. Unexpected errors are
// logged, expected ones (not found, validation) are not.
func renderError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		Log.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Errorf("%+v", err)
	}
	body, _ := renderBytes("error", ErrorView{Status: status, Message: http.StatusText(status)})
	c.Data(status, pageContentType, body)
}
