package services

import (
	"errors"
	"fmt"

	apperrors "github.com/MC3-2026/assessment-delivery-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Bank specific errors
	ErrBankNotFound     = errors.New("bank not found")
	ErrBankAccessDenied = errors.New("access denied to bank")
	ErrBankNotDeletable = errors.New("bank cannot be deleted - has existing items")

	// Item / question specific errors
	ErrItemNotFound       = errors.New("item not found")
	ErrItemAccessDenied   = errors.New("access denied to item")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrUnsupportedKind    = errors.New("unsupported question kind")
	ErrItemNotDeletable   = errors.New("item cannot be deleted - in use by assessments")
	ErrItemMissingAnswers = errors.New("item has no stored answers")

	// Assessment / offering specific errors
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrOfferingNotFound   = errors.New("offering not found")
	ErrOfferingNotOpen    = errors.New("offering is not open for taking")

	// Taken / response specific errors
	ErrTakenNotFound        = errors.New("taken not found")
	ErrTakenAccessDenied    = errors.New("access denied to taken")
	ErrTakenCompleted       = errors.New("taken already completed")
	ErrAttemptLimitExceeded = errors.New("maximum attempts exceeded")
	ErrResponseNotFound     = errors.New("response not found")
	ErrInvalidSubmission    = errors.New("invalid submission payload")

	// User/Permission errors
	ErrUserNotFound            = errors.New("user not found")
	ErrInvalidRole             = errors.New("invalid user role")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID string, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBankNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrAnswerNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrOfferingNotFound) ||
		errors.Is(err, ErrTakenNotFound) ||
		errors.Is(err, ErrResponseNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrBankAccessDenied) ||
		errors.Is(err, ErrItemAccessDenied) ||
		errors.Is(err, ErrTakenAccessDenied) ||
		errors.Is(err, ErrInsufficientPermissions) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrInvalidSubmission) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrBankNotDeletable) ||
		errors.Is(err, ErrItemNotDeletable) ||
		errors.Is(err, ErrTakenCompleted) ||
		errors.Is(err, ErrAttemptLimitExceeded)
}
