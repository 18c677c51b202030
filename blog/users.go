package blog

import (
	"context"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/Luismorlan/yatube/model"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type UserInput struct {
	Username string `form:"username" validate:"required,max=150,alphanum"`
	Password string `form:"password" validate:"required"`
}

const invalidCredentials = "Please enter a correct username and password."

func (s *Service) CreateUser(ctx context.Context, input UserInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := s.validateStruct(input); err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	if count > 0 {
		return nil, fieldError("username", "A user with that username already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := model.User{Username: input.Username, PasswordHash: string(hash)}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return &user, nil
}

// Authenticate checks a username and password pair. A wrong password and an
// unknown user are reported the same way.
func (s *Service) Authenticate(ctx context.Context, input UserInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	if err := s.validateStruct(input); err != nil {
		return nil, errors.Wrap(err, "login")
	}
	user, err := s.UserByUsername(ctx, input.Username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, fieldError("__all__", invalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, fieldError("__all__", invalidCredentials)
	}
	return user, nil
}

func (s *Service) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	res := s.DB.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "get user %q", username)
	}
	if res.RowsAffected != 1 {
		return nil, apperrors.NotFoundf("user %q", username)
	}
	return &user, nil
}
