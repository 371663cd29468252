package library

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+$`)
	phonePattern = regexp.MustCompile(`^\d{7,}$`)
)

// UserInput is a patron registration request as typed by an operator.
type UserInput struct {
	FirstName string `validate:"required,nopipe"`
	LastName  string `validate:"required,nopipe"`
	Email     string `validate:"required,nopipe,patronemail"`
	Phone     string `validate:"required,nopipe,phone"`
}

// ComicInput is a comic registration request as typed by an operator.
type ComicInput struct {
	Title      string `validate:"required,nopipe"`
	Author     string `validate:"required,nopipe"`
	AssignedTo string `validate:"omitempty,nopipe"`
}

// Validator checks operator input before it reaches the store. Values must
// never contain '|' since the data files have no escaping.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the field rules used by the catalog.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nopipe", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), fieldSeparator)
	})
	_ = v.RegisterValidation("patronemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// User trims and validates in, returning the first failing field.
func (v *Validator) User(in *UserInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return v.check(in)
}

// Comic trims and validates in, returning the first failing field.
func (v *Validator) Comic(in *ComicInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
	return v.check(in)
}

// Field validates a single free-text value under the given name.
func (v *Validator) Field(name, value string) error {
	return v.one(name, value, "required,nopipe")
}

// Email validates a patron email on its own.
func (v *Validator) Email(value string) error {
	return v.one("email", value, "required,nopipe,patronemail")
}

// Phone validates a patron phone number on its own.
func (v *Validator) Phone(value string) error {
	return v.one("phone", value, "required,nopipe,phone")
}

func (v *Validator) one(name, value, rules string) error {
	if err := v.v.Var(strings.TrimSpace(value), rules); err != nil {
		return toValidationError(name, err)
	}
	return nil
}

func (v *Validator) check(s any) error {
	if err := v.v.Struct(s); err != nil {
		return toValidationError("", err)
	}
	return nil
}

func toValidationError(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Field()
	if name != "" {
		field = name
	}
	return &ValidationError{Field: strings.ToLower(field), Message: ruleMessage(fe.Tag())}
}

func ruleMessage(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	case "nopipe":
		return "must not contain the '|' character"
	case "patronemail":
		return "is not a valid email address"
	case "phone":
		return "must contain only digits, at least 7"
	default:
		return "failed rule " + tag
	}
}
