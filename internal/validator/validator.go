package validator

import (
	"reflect"
	"strings"

	"github.com/MC3-2026/assessment-delivery-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct-tag and
// content validation.
type Validator struct {
	structValidator *validator.Validate
	itemValidator   *ItemValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		itemValidator:   NewItemValidator(),
	}
}

// ValidateStruct validates struct tags only. Tag failures come back as
// ValidationErrors with friendly messages, not raw go-playground errors, so
// the handler error mapping can treat them as client errors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// Validate performs complete validation (struct tags plus item content when
// the value carries any).
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	switch value := s.(type) {
	case *models.Question:
		return v.itemValidator.ValidateQuestion(value)
	case *models.Answer:
		return v.itemValidator.ValidateAnswer(value)
	}

	return nil
}

// Item returns the item content validator
func (v *Validator) Item() *ItemValidator {
	return v.itemValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("answer_kind", validateAnswerKind)
	validate.RegisterValidation("answer_genus", validateAnswerGenus)
	validate.RegisterValidation("user_role", validateUserRole)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Custom validation functions

func validateAnswerKind(fl validator.FieldLevel) bool {
	_, ok := models.ParseAnswerKind(fl.Field().String())
	return ok
}

func validateAnswerGenus(fl validator.FieldLevel) bool {
	switch models.AnswerGenus(fl.Field().String()) {
	case models.GenusRightAnswer, models.GenusWrongAnswer, models.GenusDefault:
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.RoleStudent, models.RoleInstructor, models.RoleAdmin:
		return true
	}
	return false
}
