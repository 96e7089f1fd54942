package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError reports rejected input. Match the cause with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// fieldErrors maps request struct fields to the sentinel reported for them.
var fieldErrors = map[string]error{
	"UserID":  common.ErrNoUserSelected,
	"Title":   common.ErrBlankTitle,
	"TagName": common.ErrBlankTagName,
}

type userRequest struct {
	UserID string `validate:"notblank"`
}

type noteRequest struct {
	UserID string `validate:"notblank"`
	Title  string `validate:"notblank"`
}

type tagRequest struct {
	TagName string `validate:"notblank"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// check runs the struct validation and converts the first failure.
func check(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	field := verrs[0].StructField()
	cause, ok := fieldErrors[field]
	if !ok {
		cause = fmt.Errorf("failed %s check", verrs[0].Tag())
	}
	return &ValidationError{Field: field, Err: cause}
}
