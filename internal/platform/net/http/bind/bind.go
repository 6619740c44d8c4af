// Package bind decodes and validates the JSON bodies of trigger requests
package bind

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	perr "spinlog/internal/platform/errors"
	"spinlog/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/goccy/go-json"
)

// FieldLevel re-exports validator.FieldLevel for custom tags
type FieldLevel = validator.FieldLevel

// FieldError re-exports validator.FieldError
type FieldError = validator.FieldError

// ValidatorSvc bundles the process wide validator with its translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	valOnce sync.Once
	valSvc  *ValidatorSvc
)

// Init builds the singleton: english translations, json tag names in
// messages, short min/max wording, and the batchkey calendar day tag
func Init() *ValidatorSvc {
	valOnce.Do(func() {
		locale := en.New()
		trans, _ := ut.New(locale, locale).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")
		registerBatchKey(v, trans)

		valSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return valSvc
}

// jsonFieldName reports a field by its json tag so validation messages match
// the wire shape callers actually sent
func jsonFieldName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if name == "-" || name == "" {
		return fld.Name
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// Get returns the singleton, initializing on first use
func Get() *ValidatorSvc { return Init() }

// RegisterValidation adds a custom tag to the shared validator
func RegisterValidation(tag string, fn validator.Func) error {
	return Get().Validator.RegisterValidation(tag, fn)
}

// JSONOptions tunes how ParseJSON treats the body
type JSONOptions struct {
	MaxBytes        int64 // body cap; defaults set 1MB
	DisallowUnknown bool  // defaults set true
	AllowEmptyBody  bool  // zero value body instead of an error
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes JSON into T, validates it, and maps failures onto the
// project error codes handlers return
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	opt := defaultJSONOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("request body close failed")
		}
	}()

	reader, emptyOK, err := payloadReader(r, opt)
	if err != nil {
		return zero, err
	}
	if reader == nil {
		// empty body on a safe method parses as the zero value
		return zero, nil
	}

	dec := json.NewDecoder(reader)
	if opt.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var out T
	if err := dec.Decode(&out); err != nil {
		if emptyOK && errors.Is(err, io.EOF) {
			return out, nil
		}
		return zero, perr.JSONErrf("malformed JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("trailing data after JSON value")
	}

	if err := Get().Validator.Struct(out); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validator failure")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return out, nil
}

// payloadReader peeks one byte so a truly empty body can be told apart from
// one about to stream; a nil reader means skip parsing entirely
func payloadReader(r *http.Request, opt JSONOptions) (io.Reader, bool, error) {
	if opt.AllowEmptyBody {
		return capped(r.Body, opt.MaxBytes), true, nil
	}

	peek := make([]byte, 1)
	n, _ := r.Body.Read(peek)
	if n == 0 {
		switch r.Method {
		case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
			return nil, false, nil
		}
		return nil, false, perr.JSONErrf("empty body")
	}
	return capped(io.MultiReader(bytes.NewReader(peek[:n]), r.Body), opt.MaxBytes), false, nil
}

func capped(r io.Reader, max int64) io.Reader {
	if max > 0 {
		return io.LimitReader(r, max)
	}
	return r
}

// ValidationFieldAndMessage returns the first failing field with its
// translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field(), fe.Translate(Get().Translator)
	}
	return "", err.Error()
}

// registerShort swaps validator's long stock wording for compact messages
func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// batch keys are calendar days
func registerBatchKey(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("batchkey", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterTranslation("batchkey", trans,
		func(t ut.Translator) error { return t.Add("batchkey", "{0} must be a YYYY-MM-DD date", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("batchkey", fe.Field())
			return msg
		},
	)
}
