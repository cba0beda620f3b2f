// Package validation validates request bodies and settings with struct tags.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/moodlog/internal/mood"
)

// Validator checks structs and reports failures in English, naming fields by their JSON keys.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() (*Validator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("mood", isMood); err != nil {
		return nil, fmt.Errorf("failed to register mood validation: %w", err)
	}
	if err := validate.RegisterTranslation("mood", trans, func(ut ut.Translator) error {
		return ut.Add("mood", "{0} must be one of happy, sad, angry, calm", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("mood", fe.Field())
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register mood translation: %w", err)
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// Struct returns an error describing every failed rule of s, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errorMsgs []string
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(v.translator))
	}
	return &Error{Messages: errorMsgs}
}

// Error lists the translated messages of a failed validation.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

func isMood(fl validator.FieldLevel) bool {
	return mood.Mood(fl.Field().String()).Valid()
}
