package blog

import (
	"reflect"
	"strings"

	"github.com/Luismorlan/yatube/apperrors"
	"github.com/go-playground/validator/v10"
)

var validationMessages = map[string]string{
	"required": "This field is required.",
	"max":      "Ensure this value is shorter.",
	"alphanum": "Enter a value with letters and numbers only.",
}

// newValidator reports fields by their form name, so messages line up with
// the submitted form.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func (s *Service) validateStruct(input interface{}) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := apperrors.FieldErrors{}
	for _, fe := range verrs {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "Enter a valid value."
		}
		fields[fe.Field()] = append(fields[fe.Field()], msg)
	}
	return &apperrors.ValidationError{Fields: fields}
}

func fieldError(field string, msg string) error {
	return &apperrors.ValidationError{Fields: apperrors.FieldErrors{field: {msg}}}
}
