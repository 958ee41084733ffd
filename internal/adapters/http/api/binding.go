package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/okian/reqbind/internal/domain/model"
)

// Parameter locations reported in FieldError.Loc.
const (
	LocPath  = "path"
	LocQuery = "query"
	LocBody  = "body"
)

// FieldError describes one rejected input.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when one or more inputs fail binding or
// validation. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = strings.Join(fe.Loc, ".") + ": " + fe.Msg
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = newValidator()

// newValidator builds the validator used for every param struct. Field
// names come from the `param:"<loc>,<name>"` tag so errors carry the
// request location rather than the Go field name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := f.Tag.Get("param")
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("model_name", func(fl validator.FieldLevel) bool {
		return model.ModelName(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
	return v
}

// binder coerces path, query and body inputs of one request and collects
// every failure so the client sees all problems at once.
type binder struct {
	w      http.ResponseWriter
	r      *http.Request
	query  url.Values
	errs   []FieldError
	failed map[string]bool
	// fatal holds a non-client error, e.g. an oversized body.
	fatal error
}

func newBinder(w http.ResponseWriter, r *http.Request) *binder {
	return &binder{
		w:      w,
		r:      r,
		query:  r.URL.Query(),
		failed: make(map[string]bool),
	}
}

func (b *binder) fail(loc, name, typ, msg string) {
	l := []string{loc}
	if name != "" {
		l = append(l, name)
	}
	b.failed[loc+"."+name] = true
	b.errs = append(b.errs, FieldError{Loc: l, Msg: msg, Type: typ})
}

// err returns the accumulated failure, or nil.
func (b *binder) err() error {
	if b.fatal != nil {
		return b.fatal
	}
	if len(b.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: b.errs}
}

// pathString returns a percent-decoded path parameter.
func (b *binder) pathString(name string) string {
	return unescapePath(chi.URLParam(b.r, name))
}

// pathRest returns the greedy wildcard segment, separators included.
func (b *binder) pathRest() string {
	return unescapePath(chi.URLParam(b.r, "*"))
}

// pathInt coerces a path parameter to int.
func (b *binder) pathInt(name string) int {
	v, err := parseInt(b.pathString(name))
	if err != nil {
		b.fail(LocPath, name, "int_parsing", "Input should be a valid integer, unable to parse string as an integer")
	}
	return v
}

// queryValue returns the last value of a query key. Repeated keys bound to a
// scalar keep the last occurrence.
func (b *binder) queryValue(name string) (string, bool) {
	vs, ok := b.query[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

// queryOptional returns the first present key among name and its aliases.
func (b *binder) queryOptional(name string, aliases ...string) *string {
	for _, key := range append([]string{name}, aliases...) {
		if v, ok := b.queryValue(key); ok {
			return &v
		}
	}
	return nil
}

// queryRequired records a missing error when the key is absent.
func (b *binder) queryRequired(name string) string {
	v, ok := b.queryValue(name)
	if !ok {
		b.fail(LocQuery, name, "missing", "Field required")
	}
	return v
}

// queryString returns the value or def when absent.
func (b *binder) queryString(name, def string) string {
	if v, ok := b.queryValue(name); ok {
		return v
	}
	return def
}

// queryInt coerces a query value to int, falling back to def when absent.
func (b *binder) queryInt(name string, def int) int {
	raw, ok := b.queryValue(name)
	if !ok {
		return def
	}
	v, err := parseInt(raw)
	if err != nil {
		b.fail(LocQuery, name, "int_parsing", "Input should be a valid integer, unable to parse string as an integer")
		return def
	}
	return v
}

// queryOptionalInt is queryInt without a default; nil when absent.
func (b *binder) queryOptionalInt(name string) *int {
	raw, ok := b.queryValue(name)
	if !ok {
		return nil
	}
	v, err := parseInt(raw)
	if err != nil {
		b.fail(LocQuery, name, "int_parsing", "Input should be a valid integer, unable to parse string as an integer")
		return nil
	}
	return &v
}

// queryBool coerces a query value to bool, falling back to def when absent.
func (b *binder) queryBool(name string, def bool) bool {
	raw, ok := b.queryValue(name)
	if !ok {
		return def
	}
	v, err := parseBool(raw)
	if err != nil {
		b.fail(LocQuery, name, "bool_parsing", "Input should be a valid boolean, unable to interpret input")
		return def
	}
	return v
}

// queryList collects every occurrence of a repeated key in order. When the
// key is absent it returns a copy of def (nil stays nil).
func (b *binder) queryList(name string, def []string) []string {
	if vs, ok := b.query[name]; ok && len(vs) > 0 {
		return append([]string(nil), vs...)
	}
	if def == nil {
		return nil
	}
	return append([]string(nil), def...)
}

// bodyJSON decodes the request body into dst. Oversized bodies set the
// fatal error; everything else is reported as a body FieldError.
func (b *binder) bodyJSON(dst any, maxBytes int64) {
	if b.r.Body == nil || b.r.Body == http.NoBody {
		b.fail(LocBody, "", "missing", "Field required")
		return
	}
	dec := json.NewDecoder(http.MaxBytesReader(b.w, b.r.Body, maxBytes))
	err := dec.Decode(dst)
	if err == nil {
		err = trailingData(dec)
	}
	if err == nil {
		return
	}

	var (
		maxErr    *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &maxErr):
		b.fatal = fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxErr.Limit)
	case errors.Is(err, io.EOF):
		b.fail(LocBody, "", "missing", "Field required")
	case errors.As(err, &typeErr):
		b.fail(LocBody, typeErr.Field, "type_error", "Input should be a valid "+jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, ErrTrailingData):
		b.fail(LocBody, "", "json_invalid", "JSON decode error")
	default:
		b.fail(LocBody, "", "json_invalid", err.Error())
	}
}

// trailingData returns ErrTrailingData unless dec has nothing but
// whitespace left. A body over the size limit keeps its MaxBytesError.
func trailingData(dec *json.Decoder) error {
	_, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return ErrTrailingData
}

// check runs tag validation over params. Fields that already failed
// coercion, or whose whole location failed, are not reported twice.
func (b *binder) check(params any) bool {
	if b.fatal != nil {
		return false
	}
	err := validate.Struct(params)
	var ves validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &ves):
		for _, fe := range ves {
			loc, name := splitParam(fe.Field())
			if b.failed[loc+"."+name] || b.failed[loc+"."] {
				continue
			}
			typ, msg := describe(fe)
			b.fail(loc, name, typ, msg)
		}
	default:
		b.fatal = err
	}
	return len(b.errs) == 0 && b.fatal == nil
}

// unescapePath decodes chi values taken from RawPath; undecodable input is
// returned unchanged.
func unescapePath(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func splitParam(field string) (loc, name string) {
	loc, name, ok := strings.Cut(field, ",")
	if !ok {
		return LocQuery, field
	}
	return loc, name
}

// describe maps a validator failure to a (type, message) pair.
func describe(fe validator.FieldError) (string, string) {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "missing", "Field required"
	case "min":
		if isString {
			return "string_too_short", fmt.Sprintf("String should have at least %s characters", fe.Param())
		}
		return "greater_than_equal", fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "max":
		if isString {
			return "string_too_long", fmt.Sprintf("String should have at most %s characters", fe.Param())
		}
		return "less_than_equal", fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "gt":
		return "greater_than", fmt.Sprintf("Input should be greater than %s", fe.Param())
	case "gte":
		return "greater_than_equal", fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "lt":
		return "less_than", fmt.Sprintf("Input should be less than %s", fe.Param())
	case "lte":
		return "less_than_equal", fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case "model_name":
		return "enum", "Input should be " + quotedModelNames()
	case "finite":
		return "type_error", "Input should be a valid number"
	default:
		return fe.Tag(), fmt.Sprintf("Input failed the %q constraint", fe.Tag())
	}
}

func quotedModelNames() string {
	names := model.ModelNames()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n.String() + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}

// parseInt accepts an optionally signed decimal integer surrounded by
// whitespace.
func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// parseBool accepts the usual spellings of true/false, case-insensitively.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "on", "t", "true", "y", "yes":
		return true, nil
	case "0", "off", "f", "false", "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrBadRequest, raw)
}
