package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"medbook/pkg/logger"
	"medbook/pkg/model"
)

var dayTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	v := validator.New()

	if err := v.RegisterValidation("valid_day_time", validateDayTime); err != nil {
		log.Fatal("Failed to register 'valid_day_time' validator",
			"error", err,
		)
	}

	log.Info("Catalog validator initialized successfully")

	return &CatalogValidator{
		validate: v,
		logger:   log,
	}
}

func validateDayTime(fl validator.FieldLevel) bool {
	return dayTimeRegex.MatchString(fl.Field().String())
}

func (v *CatalogValidator) ValidateBusiness(business *model.Business) error {
	return v.translate(v.validate.Struct(business))
}

func (v *CatalogValidator) ValidateBusinessUpdate(update *model.BusinessUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *CatalogValidator) ValidateService(service *model.Service) error {
	return v.translate(v.validate.Struct(service))
}

func (v *CatalogValidator) ValidateServiceUpdate(update *model.ServiceUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *CatalogValidator) ValidateSpecialist(specialist *model.Specialist) error {
	if err := v.translate(v.validate.Struct(specialist)); err != nil {
		return err
	}
	return validateWorkingWindow(specialist.StartOfDay, specialist.EndOfDay)
}

func (v *CatalogValidator) ValidateSpecialistUpdate(update *model.SpecialistUpdate) error {
	if err := v.translate(v.validate.Struct(update)); err != nil {
		return err
	}
	if update.StartOfDay != "" && update.EndOfDay != "" {
		return validateWorkingWindow(update.StartOfDay, update.EndOfDay)
	}
	return nil
}

// validateWorkingWindow rejects windows where the day ends before it starts.
func validateWorkingWindow(startOfDay, endOfDay string) error {
	start, err := time.Parse("15:04", startOfDay)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", endOfDay)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndOfDay",
				Message: "end_of_day must be after start_of_day",
			},
		}
	}
	return nil
}

func (v *CatalogValidator) translate(err error) error {
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var validationErrors ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()

		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", fieldErr.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155551234)", fieldErr.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fieldErr.Field())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA timezone name", fieldErr.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		case "valid_day_time":
			message = fmt.Sprintf("%s must be in HH:MM format", fieldErr.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldErr.Field(),
			Message: message,
		})
	}

	return validationErrors
}
