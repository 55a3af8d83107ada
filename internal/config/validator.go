package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// newValidator builds the Config validator with English messages, field
// names taken from mapstructure tags, and the service's custom rules:
// readable_file for the idiom mapping and http_origin for CORS entries.
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := []struct {
		tag     string
		fn      validator.Func
		message string
	}{
		{
			tag:     "readable_file",
			fn:      isReadableFile,
			message: "{0} must be an existing readable file",
		},
		{
			tag:     "http_origin",
			fn:      isHTTPOrigin,
			message: "{0} must contain http or https origins without a path",
		},
	}
	for _, rule := range rules {
		tag, message := rule.tag, rule.message
		if err := validate.RegisterValidation(tag, rule.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, strings.TrimPrefix(fe.Namespace(), "Config."))
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

func isReadableFile(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o400 != 0
}

// isHTTPOrigin accepts scheme://host values only. A path, query, fragment
// or credentials part means the value is a URL, not an origin, and would
// never equal a browser's Origin header.
func isHTTPOrigin(fl validator.FieldLevel) bool {
	origin, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return false
	}
	return origin.Host != "" && origin.Path == "" &&
		origin.RawQuery == "" && origin.Fragment == "" && origin.User == nil
}
