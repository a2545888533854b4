package core

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// Validate is the app-wide validator instance.
	Validate *validator.Validate
	// Translator translates validation errors for API/UI consumption.
	Translator ut.Translator

	// custom validation tags & texts
	passwordTag   = "password_"
	passwordText  = "must be at least 8 characters long, with at least one uppercase letter, one lowercase letter, one number and one special character (#?!@$%^&*-)"
	passwordRegex = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[0-9]`),
		regexp.MustCompile(`[#?!@$%^&*-]`),
	}

	phoneTag   = "phone_"
	phoneText  = "must be between 10 and 15 digits"
	phoneRegex = regexp.MustCompile(`^[0-9]{10,15}$`)

	notFutureTag  = "notfuture"
	notFutureText = "cannot be in the future"

	requiredTag  = "required"
	requiredText = "this field is required"
)

func init() {
	Validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")

	InitValidators(Validate, Translator)
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(passwordTag, passwordValidation)
	RegisterCustomTranslation(validate, translator, passwordTag, passwordText)

	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	RegisterCustomTranslation(validate, translator, phoneTag, phoneText)

	_ = validate.RegisterValidation(notFutureTag, notFutureValidation)
	RegisterCustomTranslation(validate, translator, notFutureTag, notFutureText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// passwordValidation enforces the remote API's password complexity rules.
func passwordValidation(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	if len(pwd) < 8 {
		return false
	}
	for _, re := range passwordRegex {
		if !re.MatchString(pwd) {
			return false
		}
	}
	return true
}

// phoneValidation only allows 10 to 15 digits.
func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// notFutureValidation rejects dates after now.
func notFutureValidation(fl validator.FieldLevel) bool {
	if t, ok := fl.Field().Interface().(time.Time); ok {
		return !t.After(time.Now())
	}
	return false
}
