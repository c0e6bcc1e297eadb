package scoring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"credit-risk-workers/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateApplication checks every field against its domain and returns an
// *InputError for the first violation.
func ValidateApplication(app models.CreditApplication) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"income", app.Income},
		{"loanAmount", app.LoanAmount},
		{"delinquencyRatio", app.DelinquencyRatio},
		{"creditUtilizationRatio", app.CreditUtilizationRatio},
	} {
		if !finite(f.v) {
			return &InputError{Field: f.name, Reason: "must be a finite number"}
		}
	}

	err := validate.Struct(app)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InputError{Field: fe.Field(), Reason: describe(fe)}
	}
	return &InputError{Field: "application", Reason: err.Error()}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
