package http

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	en2 "github.com/go-playground/validator/translations/en"
	"gopkg.in/go-playground/validator.v9"
)

// DecodeHandlerFunc receives a request body already decoded and validated by
// WithBody, plus the originating fiber context.
type DecodeHandlerFunc func(p any, c *fiber.Ctx) error

// ConstructorFunc builds a fresh zero-value instance of a request body type.
type ConstructorFunc func() any

type decoderHandler struct {
	handler     DecodeHandlerFunc
	constructor ConstructorFunc
}

func (d *decoderHandler) FiberHandlerFunc(c *fiber.Ctx) error {
	s := d.constructor()

	if err := c.BodyParser(s); err != nil {
		return BadRequest(c, "bad_request", "Malformed Request Body", "The request body could not be parsed as JSON.")
	}

	if err := ValidateStruct(s); err != nil {
		ve, ok := err.(fieldValidationError)
		if ok {
			return BadRequest(c, "bad_request", "Invalid Request", ve.Error())
		}

		return BadRequest(c, "bad_request", "Invalid Request", err.Error())
	}

	return d.handler(s, c)
}

// WithBody wraps handler h, decoding the request body into a fresh instance
// produced by constructor on every call and validating it before h runs.
func WithBody(constructor ConstructorFunc, h DecodeHandlerFunc) fiber.Handler {
	d := &decoderHandler{handler: h, constructor: constructor}

	return d.FiberHandlerFunc
}

type fieldValidationError struct {
	fields map[string]string
}

func (e fieldValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for field, msg := range e.fields {
		parts = append(parts, field+": "+msg)
	}

	return strings.Join(parts, "; ")
}

// ValidateStruct runs the shared validator instance over s, translating
// field errors into plain English.
func ValidateStruct(s any) error {
	v, trans := newValidator()

	k := reflect.ValueOf(s).Kind()
	if k == reflect.Ptr {
		k = reflect.ValueOf(s).Elem().Kind()
	}

	if k != reflect.Struct {
		return nil
	}

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)

	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Translate(trans)
	}

	return fieldValidationError{fields: fields}
}

//nolint:ireturn
func newValidator() (*validator.Validate, ut.Translator) {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New()
	_ = en2.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v, trans
}
