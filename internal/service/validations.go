package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
			switch entity.Frequency(fl.Field().String()) {
			case entity.FrequencyDaily, entity.FrequencyWeekly:
				return true
			}
			return false
		})
	})
}

// validateStruct joins every field error under errorvalues.ErrValidation.
func validateStruct(s any) error {
	InitValidator()
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		joined := []error{errorvalues.ErrValidation}
		for _, fieldErr := range validationErrors {
			joined = append(joined, fmt.Errorf("field %s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return errors.Join(joined...)
	}
	return fmt.Errorf("validation unexpected error: %w", err)
}
