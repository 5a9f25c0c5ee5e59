// Package form implements the expense form: raw field values loaded from and
// saved to a store.Store, explicit validation states, and field-level errors.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/go-ports/fairshare/internal/splitter"
	"github.com/go-ports/fairshare/internal/store"
)

// ErrUnknownField is returned by Set for a field name the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// Values are the raw, unparsed field values as typed by the user.
type Values struct {
	Income1 string `json:"income1" yaml:"income1"`
	Income2 string `json:"income2" yaml:"income2"`
	Expense string `json:"expense" yaml:"expense"`
	Round   string `json:"round" yaml:"round"`
}

// Get returns the raw value of field, or "" for an unknown field.
func (v Values) Get(field string) string {
	if p := v.ptr(field); p != nil {
		return *p
	}
	return ""
}

func (v *Values) ptr(field string) *string {
	switch field {
	case store.KeyIncome1:
		return &v.Income1
	case store.KeyIncome2:
		return &v.Income2
	case store.KeyExpense:
		return &v.Expense
	case store.KeyRound:
		return &v.Round
	}
	return nil
}

// Option configures a Form.
type Option func(*Form)

// WithRoundDefault sets the rounding used when the round field is blank.
func WithRoundDefault(round bool) Option {
	return func(f *Form) { f.roundDefault = round }
}

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn func(from, to State)) Option {
	return func(f *Form) { f.observer = fn }
}

// Form is one user's expense form. It is not safe for concurrent use.
type Form struct {
	store        store.Store
	roundDefault bool
	observer     func(from, to State)

	state  State
	values Values
	input  splitter.Input
	errs   *splitter.ValidationError
	result *splitter.Result
}

// New returns an Idle form persisting its values to s.
func New(s store.Store, opts ...Option) *Form {
	f := &Form{store: s, roundDefault: true, state: StateIdle}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Form) State() State { return f.state }

// Values returns a copy of the raw field values.
func (f *Form) Values() Values { return f.values }

// Errors returns the field messages of the last validation, keyed by field.
// It is empty unless the form is Invalid.
func (f *Form) Errors() map[string]string {
	if f.errs == nil {
		return map[string]string{}
	}
	return f.errs.ByField()
}

// Result returns the computed shares once the form has been submitted.
func (f *Form) Result() (splitter.Result, bool) {
	if f.result == nil {
		return splitter.Result{}, false
	}
	return *f.result, true
}

// Load reads the last-entered values from the store as the initial values.
func (f *Form) Load(ctx context.Context) error {
	for _, key := range store.FormKeys {
		val, found, err := f.store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("form.Load: %w", err)
		}
		if found {
			*f.values.ptr(key) = val
		}
	}
	f.reset()
	return nil
}

// Set changes one field, saves it and returns the form to Idle.
func (f *Form) Set(ctx context.Context, field, raw string) error {
	p := f.values.ptr(field)
	if p == nil {
		return fmt.Errorf("form.Set: %w: %q", ErrUnknownField, field)
	}
	*p = raw
	f.reset()
	if err := f.store.Set(ctx, field, raw); err != nil {
		return fmt.Errorf("form.Set: %w", err)
	}
	return nil
}

// SetValues sets every field of v in form order.
func (f *Form) SetValues(ctx context.Context, v Values) error {
	for _, key := range store.FormKeys {
		if err := f.Set(ctx, key, v.Get(key)); err != nil {
			return err
		}
	}
	return nil
}

// Validate parses and checks the current values, moving the form through
// Validating to Valid or Invalid. It reports whether the values are valid.
func (f *Form) Validate() bool {
	f.transition(StateValidating)

	in, verr := f.parse()
	if err := splitter.Validate(in); err != nil {
		var split *splitter.ValidationError
		if errors.As(err, &split) {
			seen := verr.ByField()
			for _, fe := range split.Fields {
				if _, dup := seen[fe.Field]; !dup {
					verr.Add(fe.Field, fe.Message)
				}
			}
		}
	}

	f.input = in
	if len(verr.Fields) > 0 {
		f.errs = verr
		f.transition(StateInvalid)
		return false
	}
	f.errs = nil
	f.transition(StateValid)
	return true
}

// Submit validates the form when needed and computes the shares.
// Invalid values yield a *splitter.ValidationError and no result.
func (f *Form) Submit(_ context.Context) (splitter.Result, error) {
	switch f.state {
	case StateSubmitted:
		return *f.result, nil
	case StateValid:
	default:
		if !f.Validate() {
			return splitter.Result{}, f.errs
		}
	}

	res, err := splitter.Compute(f.input)
	if err != nil {
		return splitter.Result{}, err
	}
	f.result = &res
	f.transition(StateSubmitted)
	return res, nil
}

// parse converts raw values into a splitter.Input, collecting parse failures.
func (f *Form) parse() (splitter.Input, *splitter.ValidationError) {
	verr := &splitter.ValidationError{}
	num := func(field string) *float64 {
		raw := strings.TrimSpace(f.values.Get(field))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isDecimal(raw) {
			verr.Add(field, "must be a number")
			return nil
		}
		return &v
	}

	in := splitter.Input{
		Income1: num(store.KeyIncome1),
		Income2: num(store.KeyIncome2),
		Expense: num(store.KeyExpense),
		Round:   lo.ToPtr(f.roundDefault),
	}
	if round, ok := ParseRound(f.values.Round); ok {
		in.Round = lo.ToPtr(round)
	} else if strings.TrimSpace(f.values.Round) != "" {
		verr.Add(store.KeyRound, "must be true or false")
	}
	return in, verr
}

// isDecimal reports whether raw is written with decimal digits only, so
// ParseFloat spellings such as "0x1p3", "Inf" or "1_000" are rejected.
func isDecimal(raw string) bool {
	return strings.IndexFunc(raw, func(r rune) bool {
		return !strings.ContainsRune("0123456789.+-eE", r)
	}) < 0
}

// ParseRound interprets a raw round value. Checkbox "on" counts as true.
// ok is false for blank or unrecognised input.
func ParseRound(raw string) (round, ok bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return false, false
	case "on", "yes":
		return true, true
	case "off", "no":
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// reset discards validation output after a value change.
func (f *Form) reset() {
	f.errs = nil
	f.result = nil
	f.input = splitter.Input{}
	f.transition(StateIdle)
}

func (f *Form) transition(to State) {
	from := f.state
	f.state = to
	if f.observer != nil && from != to {
		f.observer(from, to)
	}
}
