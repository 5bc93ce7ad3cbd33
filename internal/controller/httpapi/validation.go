package httpapi

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Freeeeeet/availability_engine/internal/availability"
	"github.com/Freeeeeet/availability_engine/internal/service"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("timezone", validateTimezone)
	validate.RegisterValidation("date", validateDate)
}

func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &service.ValidationError{Field: first.Field(), Reason: "failed " + first.Tag()}
	}
	return &service.ValidationError{Field: "body", Reason: err.Error()}
}

func validateTimezone(fl validator.FieldLevel) bool {
	tz := fl.Field().String()
	if tz == "" {
		return true
	}
	_, err := availability.LoadLocation(tz)
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := availability.ParseDate(fl.Field().String())
	return err == nil
}
