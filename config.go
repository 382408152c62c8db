package main

/*

Flag validation for the quoting CLI. Each flag gets a list of rules; rules may pull in other flags through Requires,
so validation walks the registry and remembers what it already checked.

*/

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FlagRule represents a validation rule that runs against a flag entry.
type FlagRule func(spec *FlagSpec, ctx *validationContext) error

// FlagSpec bundles a flag name, its backing pointer, and the rules to enforce on it.
type FlagSpec struct {
	Name  string
	Value any
	Rules []FlagRule
}

// ErrInvalidConfig wraps every flag validation failure.
var ErrInvalidConfig = errors.New("configuration error")

// ValidateConfig validates the provided specs. On failure it prints the reason and the flag defaults to out.
func ValidateConfig(fs *flag.FlagSet, specs []FlagSpec, out io.Writer) error {
	err := runFlagValidations(specs)
	if err == nil {
		return nil
	}
	if fs == nil {
		fs = flag.CommandLine
	}
	fmt.Fprintf(out, "configuration error: %v\n\n", err)
	fmt.Fprintf(out, "Usage of %s:\n", fs.Name())
	fs.SetOutput(out)
	fs.PrintDefaults()
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// NotEmpty asserts that the underlying string flag is not blank.
func NotEmpty() FlagRule {
	return func(spec *FlagSpec, ctx *validationContext) error {
		value, ok := stringValue(spec.Value)
		if !ok {
			return fmt.Errorf("flag -%s must be a string", spec.Name)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("flag -%s must not be empty", spec.Name)
		}
		return nil
	}
}

// OneOf asserts that a string flag is one of the provided options (case-insensitive).
func OneOf(options ...string) FlagRule {
	allowed := make(map[string]struct{}, len(options))
	for _, opt := range options {
		allowed[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	return func(spec *FlagSpec, ctx *validationContext) error {
		value, ok := stringValue(spec.Value)
		if !ok {
			return fmt.Errorf("flag -%s must be a string", spec.Name)
		}
		normalized := strings.ToLower(strings.TrimSpace(value))
		if _, exists := allowed[normalized]; !exists {
			choices := make([]string, 0, len(allowed))
			for opt := range allowed {
				choices = append(choices, opt)
			}
			sort.Strings(choices)
			return fmt.Errorf("flag -%s must be one of [%s]", spec.Name, strings.Join(choices, ", "))
		}
		return nil
	}
}

// DecimalString asserts that a string flag, when set, holds a non-negative decimal.
func DecimalString() FlagRule {
	return func(spec *FlagSpec, ctx *validationContext) error {
		value, ok := stringValue(spec.Value)
		if !ok {
			return fmt.Errorf("flag -%s must be a string", spec.Name)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("flag -%s must be a decimal number, got %q", spec.Name, value)
		}
		if d.IsNegative() {
			return fmt.Errorf("flag -%s must not be negative, got %s", spec.Name, value)
		}
		return nil
	}
}

// InRange asserts that a numeric flag lies within [lo, hi].
func InRange(lo, hi float64) FlagRule {
	return func(spec *FlagSpec, ctx *validationContext) error {
		value, ok := floatValue(spec.Value)
		if !ok {
			return fmt.Errorf("flag -%s must be numeric", spec.Name)
		}
		if value < lo || value > hi {
			return fmt.Errorf("flag -%s must be within [%v, %v], got %v", spec.Name, lo, hi, value)
		}
		return nil
	}
}

// Requires ensures that when the current flag is set, the dependent flag passes validation.
func Requires(dep string) FlagRule {
	return func(spec *FlagSpec, ctx *validationContext) error {
		if !valueProvided(spec.Value) {
			return nil
		}
		target, ok := ctx.registry[dep]
		if !ok {
			return fmt.Errorf("flag -%s requires -%s, but the dependency is not registered", spec.Name, dep)
		}
		if err := ctx.validate(target); err != nil {
			return fmt.Errorf("flag -%s requires -%s: %w", spec.Name, dep, err)
		}
		return nil
	}
}

// ExcludedBy rejects the current flag when the other flag is also set.
func ExcludedBy(other string) FlagRule {
	return func(spec *FlagSpec, ctx *validationContext) error {
		if !valueProvided(spec.Value) {
			return nil
		}
		target, ok := ctx.registry[other]
		if !ok {
			return fmt.Errorf("flag -%s excludes -%s, but it is not registered", spec.Name, other)
		}
		if valueProvided(target.Value) {
			return fmt.Errorf("flags -%s and -%s cannot be used together", spec.Name, other)
		}
		return nil
	}
}

type validationContext struct {
	registry   map[string]*FlagSpec
	validating map[string]bool
	validated  map[string]bool
}

func runFlagValidations(specs []FlagSpec) error {
	if len(specs) == 0 {
		return nil
	}
	ctx := &validationContext{
		registry:   make(map[string]*FlagSpec, len(specs)),
		validating: make(map[string]bool, len(specs)),
		validated:  make(map[string]bool, len(specs)),
	}
	for i := range specs {
		spec := &specs[i]
		if spec.Name == "" {
			return errors.New("flag spec missing name")
		}
		if spec.Value == nil {
			return fmt.Errorf("flag -%s is missing its backing pointer", spec.Name)
		}
		if _, exists := ctx.registry[spec.Name]; exists {
			return fmt.Errorf("flag -%s defined more than once", spec.Name)
		}
		ctx.registry[spec.Name] = spec
	}
	// walk in declaration order so the first reported error is stable
	for i := range specs {
		if err := ctx.validate(ctx.registry[specs[i].Name]); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *validationContext) validate(spec *FlagSpec) error {
	if spec == nil {
		return nil
	}
	if ctx.validated[spec.Name] || ctx.validating[spec.Name] {
		return nil
	}
	ctx.validating[spec.Name] = true
	defer delete(ctx.validating, spec.Name)
	for _, rule := range spec.Rules {
		if rule == nil {
			continue
		}
		if err := rule(spec, ctx); err != nil {
			return err
		}
	}
	ctx.validated[spec.Name] = true
	return nil
}

func stringValue(value any) (string, bool) {
	rv, ok := derefValue(value)
	if !ok || rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func floatValue(value any) (float64, bool) {
	rv, ok := derefValue(value)
	if !ok {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	default:
		return 0, false
	}
}

func valueProvided(value any) bool {
	rv, ok := derefValue(value)
	if !ok {
		return false
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) != ""
	case reflect.Bool:
		return rv.Bool()
	default:
		return !rv.IsZero()
	}
}

func derefValue(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, false
	}
	return rv, true
}
