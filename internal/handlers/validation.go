package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	phonevalidator "github.com/staybook/hotel-reservation-backend/pkg/validator"
)

// RegisterValidators adds the domain binding tags to gin's validator:
// phone, trimmed_email, user_role, room_status and reservation_status.
// Field names in errors use the json tag.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	phones := phonevalidator.NewPhoneValidator()
	tags := map[string]validator.Func{
		"phone": func(fl validator.FieldLevel) bool {
			return phones.IsValid(fl.Field().String())
		},
		// services trim and lowercase the address, so surrounding spaces are accepted
		"trimmed_email": func(fl validator.FieldLevel) bool {
			return v.Var(strings.TrimSpace(fl.Field().String()), "email") == nil
		},
		"user_role": func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).IsValid()
		},
		"room_status": func(fl validator.FieldLevel) bool {
			return models.RoomStatus(fl.Field().String()).IsValid()
		},
		"reservation_status": func(fl validator.FieldLevel) bool {
			return models.ReservationStatus(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}
