package protocol

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// payloadValidate checks the struct tags of decoded payloads
var payloadValidate *validator.Validate

func init() {
	payloadValidate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so errors match what the client sent
	payloadValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateStruct(v any) error {
	err := payloadValidate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return invalidArgument(fieldPath(fe.Namespace()), "failed %q validation", fe.Tag())
	}
	return invalidArgument("data", "%v", err)
}

// fieldPath drops the leading struct name from a validator namespace
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
