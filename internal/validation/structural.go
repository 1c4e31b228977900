package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// StructValidator returns the shared validator with the wheel's custom tags registered.
// Field names in errors use their json names.
func StructValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation(TagCurrency, func(fl validator.FieldLevel) bool {
			return domain.CurrencyType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(TagRarity, func(fl validator.FieldLevel) bool {
			return domain.Rarity(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation(TagTrigger, func(fl validator.FieldLevel) bool {
			return domain.TriggerKind(fl.Field().String()).Valid()
		})
		structValidator = v
	})
	return structValidator
}

// structuralIssues runs the struct tags of the config and renders one issue per failed field
func structuralIssues(cfg domain.Config) []string {
	err := StructValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	issues := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		issues = append(issues, fmt.Sprintf(IssueFmtField, fieldPath(e), describe(e)))
	}
	return issues
}

// fieldPath strips the root struct name from the namespace, e.g. "rewards[2].type"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case TagCurrency:
		return fmt.Sprintf("unknown currency %q", e.Value())
	case TagRarity:
		return fmt.Sprintf("unknown rarity %q", e.Value())
	case TagTrigger:
		return fmt.Sprintf("unknown trigger %q", e.Value())
	default:
		return "is invalid"
	}
}
