package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	validate.RegisterTagNameFunc(tagName)
}

// tagName names fields the way clients know them: json tag, then form tag,
// then the Go name.
func tagName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.Split(f.Tag.Get(key), ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// messages maps validation tags to friendly messages. The first %s is the
// field name, the second the tag parameter.
var messages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"lte":      "The field '%s' must be less than or equal to %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"gt":       "The field '%s' must be greater than %s.",
	"lt":       "The field '%s' must be less than %s.",
	"oneof":    "The field '%s' must be one of %s.",
}

// sizeMessages are used for min/max, depending on the field kind.
var sizeMessages = map[string][2]string{
	"min": {"The field '%s' must be at least %s characters long.", "The field '%s' must be at least %s."},
	"max": {"The field '%s' must be no longer than %s characters.", "The field '%s' must be at most %s."},
}

func parseMessage(name string, e validator.FieldError) string {
	if pair, ok := sizeMessages[e.Tag()]; ok {
		msg := pair[1]
		if e.Kind() == reflect.String {
			msg = pair[0]
		}
		return fmt.Sprintf(msg, name, e.Param())
	}
	if msg, ok := messages[e.Tag()]; ok {
		if strings.Count(msg, "%s") == 2 {
			return fmt.Sprintf(msg, name, e.Param())
		}
		return fmt.Sprintf(msg, name)
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", name, e.Tag())
}

// fieldKey returns the dotted path of the failing field below the root
// struct. Untagged embedded structs do not appear in the path.
func fieldKey(e validator.FieldError) string {
	segments := strings.Split(e.Namespace(), ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	kept := segments[:0]
	for i, seg := range segments {
		if i < len(segments)-1 && seg != "" && unicode.IsUpper(rune(seg[0])) {
			continue
		}
		kept = append(kept, seg)
	}
	return strings.Join(kept, ".")
}

// ValidateStruct validates s, a struct or pointer to one, and returns a map
// of field names to friendly error messages. The map is empty when s is valid.
func ValidateStruct(s any) map[string]string {
	validationErrors := make(map[string]string)

	err := validate.Struct(s)
	if err == nil {
		return validationErrors
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		validationErrors["_"] = err.Error()
		return validationErrors
	}

	for _, e := range validationErrs {
		key := fieldKey(e)
		validationErrors[key] = parseMessage(e.Field(), e)
	}
	return validationErrors
}
