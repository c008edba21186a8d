// Package validation implements the declarative field validation used by
// every request DTO.
//
// A Rule is a value: a code, a message and a predicate over the field's string
// form. A Schema binds field names to getters and ordered rules and evaluates
// them with one policy:
//
//   - fields are evaluated in declaration order and every field is evaluated,
//     so a client receives all broken fields in one response;
//   - within a field, evaluation stops at the first failing rule.
//
// Rules and schemas hold no mutable state after construction and are safe
// for concurrent use.
package validation

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule codes reported in Violation.Code.
const (
	CodeRequired  = "required"
	CodeMinLength = "min_length"
	CodeMaxLength = "max_length"
	CodeEmail     = "email"
	CodeMustMatch = "must_match"
	CodeRange     = "range"
)

// Lookup returns the string value of another field in the same payload.
type Lookup func(field string) (string, bool)

// Rule is a single constraint attached to a field.
type Rule struct {
	Code    string
	Message string

	optional bool
	check    func(value string, lookup Lookup) bool
}

// Optional returns a copy of r that passes when the value is empty.
func (r Rule) Optional() Rule {
	r.optional = true
	return r
}

// IsOptional reports whether r skips empty values.
func (r Rule) IsOptional() bool { return r.optional }

// Check reports whether value satisfies r.
func (r Rule) Check(value string, lookup Lookup) bool {
	if r.optional && value == "" {
		return true
	}
	if r.check == nil {
		return true
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	return r.check(value, lookup)
}

// Required fails on an empty or whitespace-only value.
func Required(msg string) Rule {
	return Rule{Code: CodeRequired, Message: msg, check: func(v string, _ Lookup) bool {
		return strings.TrimSpace(v) != ""
	}}
}

// MinLength fails when value has fewer than n characters (runes).
func MinLength(n int, msg string) Rule {
	return Rule{Code: CodeMinLength, Message: msg, check: func(v string, _ Lookup) bool {
		return utf8.RuneCountInString(v) >= n
	}}
}

// MaxLength fails when value has more than n characters (runes).
func MaxLength(n int, msg string) Rule {
	return Rule{Code: CodeMaxLength, Message: msg, check: func(v string, _ Lookup) bool {
		return utf8.RuneCountInString(v) <= n
	}}
}

// Email performs a syntactic shape check: a local part, one "@", and a
// domain containing a dot that is neither first nor last. It is not an
// RFC 5322 parser.
func Email(msg string) Rule {
	return Rule{Code: CodeEmail, Message: msg, check: func(v string, _ Lookup) bool {
		return looksLikeEmail(v)
	}}
}

// EqualsField fails unless value is byte-for-byte equal to the named field.
// A missing field never matches.
func EqualsField(other, msg string) Rule {
	return Rule{Code: CodeMustMatch, Message: msg, check: func(v string, lookup Lookup) bool {
		o, ok := lookup(other)
		return ok && o == v
	}}
}

// Custom wraps an arbitrary predicate under its own code.
func Custom(code, msg string, pred func(value string) bool) Rule {
	return Rule{Code: code, Message: msg, check: func(v string, _ Lookup) bool {
		return pred(v)
	}}
}

// Range requires a base-10 integer within [min, max] inclusive. Non-numeric
// input fails.
func Range(min, max int64, msg string) Rule {
	return Rule{Code: CodeRange, Message: msg, check: func(v string, _ Lookup) bool {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return false
		}
		return n >= min && n <= max
	}}
}

func looksLikeEmail(v string) bool {
	if v == "" || strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return false
	}
	at := strings.IndexByte(v, '@')
	if at <= 0 || at != strings.LastIndexByte(v, '@') {
		return false
	}
	host := v[at+1:]
	dot := strings.IndexByte(host, '.')
	return dot > 0 && !strings.HasSuffix(host, ".")
}
