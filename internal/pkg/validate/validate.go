package validate

import (
	"errors"
	"reflect"
	"strings"

	"skill-eval/internal/domain/assessment"
	"skill-eval/internal/domain/skill"

	"github.com/go-playground/validator/v10"
)

// Validator adapts validator/v10 to fiber's StructValidator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return skill.ValidSlug(fl.Field().String())
	})
	_ = v.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
		return skill.ValidHexColor(fl.Field().String())
	})
	_ = v.RegisterValidation("assessment_type", func(fl validator.FieldLevel) bool {
		_, ok := assessment.ParseType(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

func (v *Validator) Validate(out any) error {
	return v.v.Struct(out)
}

// Fields flattens validation failures into field -> message. The second
// return is false when err carries no field errors.
func Fields(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, exists := out[field]; exists {
			continue
		}
		out[field] = message(fe)
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString(fe) {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString(fe) {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "url", "http_url":
		return "must be a valid url"
	case "email":
		return "must be a valid email"
	case "slug":
		return "must contain lowercase letters, digits and single hyphens"
	case "hexcolor":
		return "must be a #RRGGBB color"
	case "assessment_type":
		return "must be one of: " + strings.Join(typeNames(), ", ")
	default:
		return "is invalid"
	}
}

func isString(fe validator.FieldError) bool {
	k := fe.Kind()
	if k == reflect.Ptr {
		k = fe.Type().Elem().Kind()
	}
	return k == reflect.String
}

func typeNames() []string {
	out := make([]string, 0, len(assessment.Types))
	for _, t := range assessment.Types {
		out = append(out, string(t))
	}
	return out
}
