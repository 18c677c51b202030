// Package blog implements content lifecycle and follow management on top of
// the gorm data store. Every operation takes the acting user explicitly, http
// concerns such as redirects are left to the handlers.
package blog

import (
	"github.com/Luismorlan/yatube/file_store"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Images   file_store.ImageStore
	validate *validator.Validate
}

func NewService(db *gorm.DB, images file_store.ImageStore) *Service {
	return &Service{
		DB:       db,
		Images:   images,
		validate: newValidator(),
	}
}
