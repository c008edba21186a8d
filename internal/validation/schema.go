package validation

import "strings"

// Violation is one failed rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Violations is an ordered list of failures: field declaration order, at most
// one entry per field.
type Violations []Violation

// Error joins the messages with ", " in order.
func (v Violations) Error() string {
	return strings.Join(v.Messages(), ", ")
}

// Messages returns the messages in order.
func (v Violations) Messages() []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = x.Message
	}
	return out
}

// Field returns the violation for name, if any.
func (v Violations) Field(name string) (Violation, bool) {
	for _, x := range v {
		if x.Field == name {
			return x, true
		}
	}
	return Violation{}, false
}

type fieldSpec[T any] struct {
	name  string
	get   func(T) string
	rules []Rule
}

// Schema is the validation table for a DTO type T.
//
// Build it once (typically in a package-level var) and call Validate per
// request:
//
//	var loginSchema = validation.NewSchema[LoginUser]().
//		Field("email", func(d LoginUser) string { return d.Email },
//			validation.Required("Email is required"),
//			validation.Email("Email is invalid"))
type Schema[T any] struct {
	fields []fieldSpec[T]
}

// NewSchema returns an empty schema.
func NewSchema[T any]() *Schema[T] { return &Schema[T]{} }

// Field appends a field with its ordered rules. Field is meant for schema
// construction only; do not call it once the schema is in use.
func (s *Schema[T]) Field(name string, get func(T) string, rules ...Rule) *Schema[T] {
	s.fields = append(s.fields, fieldSpec[T]{name: name, get: get, rules: rules})
	return s
}

// Fields returns the declared field names in order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.name
	}
	return out
}

// Validate evaluates every field of v and returns nil when all rules pass.
func (s *Schema[T]) Validate(v T) Violations {
	values := make(map[string]string, len(s.fields))
	for _, f := range s.fields {
		values[f.name] = f.get(v)
	}
	lookup := func(name string) (string, bool) {
		val, ok := values[name]
		return val, ok
	}

	var out Violations
	for _, f := range s.fields {
		val := values[f.name]
		for _, r := range f.rules {
			if !r.Check(val, lookup) {
				out = append(out, Violation{Field: f.name, Code: r.Code, Message: r.Message})
				break
			}
		}
	}
	return out
}
