package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields under their JSON names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// a nil UUID counts as missing
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		id, ok := v.Interface().(uuid.UUID)
		if !ok || id.IsNil() {
			return ""
		}
		return id.String()
	}, uuid.UUID{})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors maps each failing field to the tag it failed on. It returns nil
// when err does not come from the validator.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Describe renders the field errors as "field: tag" pairs sorted by field.
func Describe(err error) string {
	fields := FieldErrors(err)
	if fields == nil {
		return err.Error()
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, fields[name])
	}
	return strings.Join(parts, ", ")
}
