package domain

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RuleKind identifies one of the fixed validation rules
type RuleKind string

const (
	RuleRequired  RuleKind = "required"
	RuleEmail     RuleKind = "email"
	RuleMinLength RuleKind = "minLength"
	RuleMaxLength RuleKind = "maxLength"
	RuleMinValue  RuleKind = "minValue"
	RuleMaxValue  RuleKind = "maxValue"
	RuleNumber    RuleKind = "number"
	RulePositive  RuleKind = "positive"
)

// ValidRuleKinds returns every rule kind, parametrised ones included
func ValidRuleKinds() []RuleKind {
	return []RuleKind{
		RuleRequired,
		RuleEmail,
		RuleMinLength,
		RuleMaxLength,
		RuleMinValue,
		RuleMaxValue,
		RuleNumber,
		RulePositive,
	}
}

// IsParametrized reports whether the kind needs a bound
func (k RuleKind) IsParametrized() bool {
	switch k {
	case RuleMinLength, RuleMaxLength, RuleMinValue, RuleMaxValue:
		return true
	}
	return false
}

// Rule is a single validation rule. Bound is only read by the
// length and value rules.
type Rule struct {
	Kind  RuleKind
	Bound float64
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Rule constructors
func Required() Rule {
	return Rule{Kind: RuleRequired}
}

func Email() Rule {
	return Rule{Kind: RuleEmail}
}

func Number() Rule {
	return Rule{Kind: RuleNumber}
}

func Positive() Rule {
	return Rule{Kind: RulePositive}
}

func MinLength(n int) Rule {
	return Rule{Kind: RuleMinLength, Bound: float64(n)}
}

func MaxLength(n int) Rule {
	return Rule{Kind: RuleMaxLength, Bound: float64(n)}
}

func MinValue(n float64) Rule {
	return Rule{Kind: RuleMinValue, Bound: n}
}

func MaxValue(n float64) Rule {
	return Rule{Kind: RuleMaxValue, Bound: n}
}

// NewRule builds a rule from its kind and bound, rejecting unknown kinds
func NewRule(kind RuleKind, bound float64) (Rule, error) {
	for _, k := range ValidRuleKinds() {
		if k == kind {
			return Rule{Kind: kind, Bound: bound}, nil
		}
	}
	return Rule{}, fmt.Errorf("unknown validation rule: %s", kind)
}

// parseNumber parses a field value as a float. Anything unparsable is NaN.
func parseNumber(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Check reports whether value satisfies the rule
func (r Rule) Check(value string) bool {
	switch r.Kind {
	case RuleRequired:
		return strings.TrimSpace(value) != ""
	case RuleEmail:
		return emailPattern.MatchString(value)
	case RuleMinLength:
		return float64(utf8.RuneCountInString(value)) >= r.Bound
	case RuleMaxLength:
		return float64(utf8.RuneCountInString(value)) <= r.Bound
	case RuleMinValue:
		// NaN compares false, so non-numeric input fails
		return parseNumber(value) >= r.Bound
	case RuleMaxValue:
		return parseNumber(value) <= r.Bound
	case RuleNumber:
		return !math.IsNaN(parseNumber(value))
	case RulePositive:
		return parseNumber(value) > 0
	default:
		return false
	}
}

// Message is the text reported when the rule fails
func (r Rule) Message() string {
	bound := strconv.FormatFloat(r.Bound, 'f', -1, 64)
	switch r.Kind {
	case RuleRequired:
		return "This field is required"
	case RuleEmail:
		return "Please enter a valid email address"
	case RuleMinLength:
		return fmt.Sprintf("Minimum %s characters required", bound)
	case RuleMaxLength:
		return fmt.Sprintf("Maximum %s characters allowed", bound)
	case RuleMinValue:
		return fmt.Sprintf("Minimum value is %s", bound)
	case RuleMaxValue:
		return fmt.Sprintf("Maximum value is %s", bound)
	case RuleNumber:
		return "Please enter a valid number"
	case RulePositive:
		return "Value must be positive"
	default:
		return "Invalid value"
	}
}

// FieldResult is the outcome of validating one field. An empty Message means valid.
type FieldResult struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Valid reports whether the field passed every rule
func (r FieldResult) Valid() bool {
	return r.Message == ""
}

// ValidateField evaluates rules in order and reports the first failure
func ValidateField(name, value string, rules ...Rule) FieldResult {
	for _, rule := range rules {
		if !rule.Check(value) {
			return FieldResult{Field: name, Message: rule.Message()}
		}
	}
	return FieldResult{Field: name}
}

// Field is one form input together with the rules it must satisfy
type Field struct {
	Name  string
	Value string
	Rules []Rule
}

// Result maps field names to their current error message ("" = valid)
type Result map[string]string

// Validate runs every field and collects the results. All fields are
// evaluated even after a failure so every message can be shown at once.
func Validate(fields ...Field) Result {
	result := make(Result, len(fields))
	for _, f := range fields {
		result.Record(ValidateField(f.Name, f.Value, f.Rules...))
	}
	return result
}

// Record stores a field result, overwriting any previous message, and reports validity
func (r Result) Record(fr FieldResult) bool {
	r[fr.Field] = fr.Message
	return fr.Valid()
}

// Message returns the stored message for a field, empty when valid or never validated
func (r Result) Message(field string) string {
	return r[field]
}

// Valid reports whether no field carries a message
func (r Result) Valid() bool {
	for _, msg := range r {
		if msg != "" {
			return false
		}
	}
	return true
}

// Failures returns only the failing fields
func (r Result) Failures() map[string]string {
	failures := make(map[string]string)
	for field, msg := range r {
		if msg != "" {
			failures[field] = msg
		}
	}
	return failures
}

// Err returns a *ValidationError when any field failed, nil otherwise
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Fields: r.Failures()}
}

// ValidationError carries the per-field messages of a failed validation pass
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Canned rule sets used by the forms
func NameRules() []Rule {
	return []Rule{Required(), MinLength(2), MaxLength(50)}
}

func EmailRules() []Rule {
	return []Rule{Required(), Email()}
}

func HeightRules() []Rule {
	return []Rule{Required(), Positive(), MinValue(1), MaxValue(300)}
}

func WeightRules() []Rule {
	return []Rule{Required(), Positive(), MinValue(1), MaxValue(500)}
}

func AgeRules() []Rule {
	return []Rule{Required(), Positive(), MinValue(1), MaxValue(120)}
}

func SelectRules() []Rule {
	return []Rule{Required()}
}
