package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"draperads/internal/models"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// FieldError is one entry of the list returned to clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	return New()
}

// New returns the validator with the ad tags registered.
func New() *CustomValidator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("ad_cta", validateCTA)
	_ = v.RegisterValidation("ad_status", validateAdStatus)
	_ = v.RegisterValidation("campaign_objective", validateCampaignObjective)

	return &CustomValidator{validator: v}
}

func validateCTA(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidCTA(fl.Field().String())
}

func validateAdStatus(fl playgroundvalidator.FieldLevel) bool {
	return models.IsValidAdStatus(models.AdStatus(fl.Field().String()))
}

func validateCampaignObjective(fl playgroundvalidator.FieldLevel) bool {
	objective := fl.Field().String()
	for _, o := range models.CampaignObjectives {
		if o == objective {
			return true
		}
	}
	return false
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, fieldPath(err))
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Fields formats every failure as a client-facing message.
func (ve ValidationErrors) Fields() []FieldError {
	out := make([]FieldError, 0, len(ve))
	for _, err := range ve {
		out = append(out, FieldError{Field: fieldPath(err), Message: message(err)})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, e.g.
// "PublishRequest.adSetData.name" becomes "adSetData.name".
func fieldPath(err playgroundvalidator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

func message(err playgroundvalidator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, param)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "ad_cta":
		return fmt.Sprintf("%s must be a supported call to action", field)
	case "ad_status":
		return fmt.Sprintf("%s must be one of: draft, published, active, completed", field)
	case "campaign_objective":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.CampaignObjectives, ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, err.Tag())
	}
}
