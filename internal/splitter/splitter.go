// Package splitter computes proportional shares of an expense between two incomes.
package splitter

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// MaxAmount is the inclusive upper bound for every numeric input.
const MaxAmount = 1_000_000

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so errors line up with form keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Input is one split request. A nil numeric field is treated as missing;
// a nil Round means rounding is enabled.
type Input struct {
	Income1 *float64 `json:"income1" validate:"required,finite,gte=0,lte=1000000"`
	Income2 *float64 `json:"income2" validate:"required,finite,gte=0,lte=1000000"`
	Expense *float64 `json:"expense" validate:"required,finite,gte=0,lte=1000000"`
	Round   *bool    `json:"round,omitempty"`
}

// Result holds each person's share of the expense.
type Result struct {
	Person1Share float64 `json:"person1Share"`
	Person2Share float64 `json:"person2Share"`
}

// Total returns the sum of both shares.
func (r Result) Total() float64 {
	return r.Person1Share + r.Person2Share
}

// Split divides expense between two people proportionally to their incomes.
func Split(income1, income2, expense float64, round bool) (Result, error) {
	return Compute(Input{
		Income1: lo.ToPtr(income1),
		Income2: lo.ToPtr(income2),
		Expense: lo.ToPtr(expense),
		Round:   lo.ToPtr(round),
	})
}

// Compute validates in and returns the proportional shares.
// Every failure is a *ValidationError; no partial result is returned.
func Compute(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	income1, income2, expense := *in.Income1, *in.Income2, *in.Expense
	totalIncome := income1 + income2

	res := Result{
		Person1Share: expense * (income1 / totalIncome),
		Person2Share: expense * (income2 / totalIncome),
	}
	// Each share is rounded on its own, so the rounded pair may miss
	// expense by one.
	if lo.FromPtrOr(in.Round, true) {
		res.Person1Share = math.Round(res.Person1Share)
		res.Person2Share = math.Round(res.Person2Share)
	}
	return res, nil
}

// Validate checks bounds and presence of every field and that the combined
// income is positive.
func Validate(in Input) error {
	if err := validate.Struct(in); err != nil {
		return fromValidator(err)
	}
	if *in.Income1+*in.Income2 == 0 {
		return &ValidationError{Fields: []FieldError{{
			Field:   FieldTotalIncome,
			Message: "combined income must be greater than zero",
		}}}
	}
	return nil
}
