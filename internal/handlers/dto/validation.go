package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/thereayou/matcha-tracker/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator and makes
// error paths use json field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("matcha_type", func(fl validator.FieldLevel) bool {
			return models.IsMatchaType(fl.Field().String())
		})
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// BindJSON decodes body into obj field by field and then validates it. A
// field holding the wrong JSON type is reported next to the validation
// failures of the other fields instead of aborting the whole decode.
func BindJSON(body []byte, obj any) []FieldError {
	if !json.Valid(body) {
		return []FieldError{{Field: "body", Reason: "malformed JSON"}}
	}

	d := decoder{failed: map[string]bool{}}
	d.value(body, reflect.ValueOf(obj).Elem(), "")
	if d.failed[""] {
		return d.errs
	}

	if err := binding.Validator.ValidateStruct(obj); err != nil {
		for _, fe := range FieldErrors(err) {
			if !d.covers(fe.Field) {
				d.errs = append(d.errs, fe)
			}
		}
	}
	return d.errs
}

var jsonUnmarshaler = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

type decoder struct {
	errs   []FieldError
	failed map[string]bool
}

func (d *decoder) value(raw json.RawMessage, v reflect.Value, path string) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		v.Set(reflect.Zero(v.Type()))
		return
	}

	t := v.Type()
	if t.Kind() == reflect.Ptr && composite(t.Elem()) {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		d.value(raw, v.Elem(), path)
		return
	}
	if !composite(t) {
		if err := json.Unmarshal(raw, v.Addr().Interface()); err != nil {
			d.fail(path, decodeReason(err))
		}
		return
	}

	if t.Kind() == reflect.Slice {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			d.fail(path, "expected an array")
			return
		}
		s := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			d.value(item, s.Index(i), fmt.Sprintf("%s[%d]", path, i))
		}
		v.Set(s)
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		d.fail(path, "expected an object")
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonFieldName(f)
		if !f.IsExported() || name == "" {
			continue
		}
		if msg, ok := fields[name]; ok {
			d.value(msg, v.Field(i), joinPath(path, name))
		}
	}
}

func (d *decoder) fail(path, reason string) {
	d.failed[path] = true
	field := path
	if field == "" {
		field = "body"
	}
	d.errs = append(d.errs, FieldError{Field: field, Reason: reason})
}

// covers reports whether path, or a value containing it, already failed to decode.
func (d *decoder) covers(path string) bool {
	for p := range d.failed {
		if path == p || strings.HasPrefix(path, p+".") || strings.HasPrefix(path, p+"[") {
			return true
		}
	}
	return false
}

// composite is true for structs and slices of structs, which are decoded
// member by member.
func composite(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(jsonUnmarshaler) {
		return false
	}
	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "expected " + typeName(typeErr.Type)
	}
	return err.Error()
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	}
	return t.String()
}

// parseNumber reads an optional numeric query parameter, recording a field
// error when it is not a number.
func parseNumber(field string, raw *string, errs *[]FieldError) *float64 {
	if raw == nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Reason: "must be a number"})
		return nil
	}
	return &n
}

// parseDate reads an optional YYYY-MM-DD value, recording a field error when
// it does not parse.
func parseDate(field string, raw *string, errs *[]FieldError) *models.Date {
	if raw == nil {
		return nil
	}
	d, err := models.ParseDate(*raw)
	if err != nil {
		*errs = append(*errs, FieldError{Field: field, Reason: err.Error()})
		return nil
	}
	return &d
}

// FieldErrors flattens a validation error into per-field reasons.
func FieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fieldPath(fe), Reason: reason(fe)})
		}
		return out
	}
	return []FieldError{{Field: "body", Reason: err.Error()}}
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "value is not a valid email address"
	case "username":
		return "must be 3-20 characters of letters, digits or underscore"
	case "matcha_type":
		return "must be one of: " + strings.Join(models.MatchaTypes, ", ")
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid UUID"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "must not be empty"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
