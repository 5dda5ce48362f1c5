package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/samber/lo"
)

var (
	reMobile = regexp.MustCompile(`^[0-9]{10}$`)
	reDigits = regexp.MustCompile(`^[0-9]+$`)
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator validates a struct and returns a ValidationError on failure.
type Validator interface {
	Validate(data any) error
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are the JSON field names in snake_case.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations. otpDigits
// is the exact width accepted by the "otp" rule.
func NewV10Validator(otpDigits int) (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerRules(validate, enTrans, otpDigits); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	if err := v.validate.Struct(data); err != nil {
		var validateErrs validator.ValidationErrors
		if !errors.As(err, &validateErrs) {
			return err
		}

		errV10 := make(V10ValidationError)
		for _, fe := range validateErrs {
			errV10[lo.SnakeCase(fe.Field())] = fe.Translate(v.translator)
		}

		return errV10
	}

	return nil
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func registerRules(validate *validator.Validate, enTrans ut.Translator, otpDigits int) error {
	rules := []struct {
		tag  string
		msg  string
		rule validator.Func
	}{
		{
			tag: "mobile",
			msg: "{0} must be exactly 10 digits",
			rule: func(fl validator.FieldLevel) bool {
				return reMobile.MatchString(fl.Field().String())
			},
		},
		{
			tag: "otp",
			msg: fmt.Sprintf("{0} must be a %d-digit code", otpDigits),
			rule: func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return len(s) == otpDigits && reDigits.MatchString(s)
			},
		},
	}

	for _, r := range rules {
		if err := validate.RegisterValidation(r.tag, r.rule); err != nil {
			return err
		}

		msg := r.msg
		err := validate.RegisterTranslation(r.tag, enTrans,
			func(ut ut.Translator) error {
				return ut.Add(r.tag, msg, false)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, err := ut.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("warning: error translating", "FieldError", fe, "error", err)
					return fe.Error()
				}
				return t
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}
