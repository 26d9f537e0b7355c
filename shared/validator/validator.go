package validator

import (
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"tourbook/shared/constant"
	"tourbook/shared/failure"
	"tourbook/shared/security"
	"tourbook/shared/timezone"

	val "github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate *val.Validate

var (
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-()]{8,}$`)
	locationPattern = regexp.MustCompile(`^[\p{L}\d\s,.'\-]+$`)
)

func registerMimetypeValidation(field val.FieldLevel) bool {
	var contentType string

	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		contentType = file.Header.Get(constant.RequestHeaderContentType)
	case *multipart.FileHeader:
		if file == nil {
			return false
		}

		contentType = file.Header.Get(constant.RequestHeaderContentType)
	default:
		return false
	}

	allowedTypes := strings.Split(field.Param(), " ")

	return slices.Contains(allowedTypes, contentType)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	var fileSize int64

	switch file := field.Field().Interface().(type) {
	case multipart.FileHeader:
		fileSize = file.Size
	case *multipart.FileHeader:
		if file == nil {
			return false
		}

		fileSize = file.Size
	case string:
		fileSize = int64(len(file))
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0
	maxSizeBytes := int64(maxSizeMB * bytesConversion * bytesConversion)

	return fileSize <= maxSizeBytes
}

func registerPhoneValidation(field val.FieldLevel) bool {
	return phonePattern.MatchString(field.Field().String())
}

func registerLocationValidation(field val.FieldLevel) bool {
	return locationPattern.MatchString(strings.TrimSpace(field.Field().String()))
}

func registerSafeTextValidation(field val.FieldLevel) bool {
	return security.IsSafeText(field.Field().String())
}

func registerSafeSearchValidation(field val.FieldLevel) bool {
	return security.IsSafeSearch(field.Field().String())
}

// registerNotPastValidation accepts today and later in the app timezone.
// Empty strings pass so the tag composes with omitempty and required.
func registerNotPastValidation(field val.FieldLevel) bool {
	switch v := field.Field().Interface().(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return true
		}

		date, err := timezone.ParseDate(v)
		if err != nil {
			return false
		}

		return !timezone.IsPastDate(date)
	case time.Time:
		return v.IsZero() || !timezone.IsPastDate(v)
	default:
		return false
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	validations := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"phone":       registerPhoneValidation,
		"location":    registerLocationValidation,
		"safetext":    registerSafeTextValidation,
		"safesearch":  registerSafeSearchValidation,
		"notpast":     registerNotPastValidation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
