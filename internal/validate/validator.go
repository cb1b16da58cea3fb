// Package validate holds the pre-insert integrity checks. Check is a pure
// function over a table spec and a resolved column map; it never mutates
// state and never touches the store.
package validate

import (
	"time"

	"github.com/rajmukherjee207/SQL-Student-Loader/internal/refcache"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
)

type Code string

const (
	CodeMissingRequired Code = "missing_required"
	CodeBadReference    Code = "bad_reference"
	CodeBadEnum         Code = "bad_enum"
	CodeOutOfRange      Code = "out_of_range"
)

type Result struct {
	OK    bool
	Code  Code
	Field string
}

func valid() Result { return Result{OK: true} }

func invalid(code Code, field string) Result {
	return Result{Code: code, Field: field}
}

// IDSet answers whether a surrogate id was issued for an entity during this
// run. The reference cache implements it.
type IDSet interface {
	KnownID(e refcache.Entity, id uint) bool
}

func Check(spec schema.TableSpec, fields map[string]any, ids IDSet) Result {
	for _, col := range spec.NotNull {
		if absent(fields[col]) {
			return invalid(CodeMissingRequired, col)
		}
	}
	for col, entity := range spec.Refs {
		id, set := refID(fields[col])
		if !set {
			// optional reference left unset, e.g. a Break period's teacher
			continue
		}
		if !ids.KnownID(entity, id) {
			return invalid(CodeBadReference, col)
		}
	}
	for col, allowed := range spec.Enums {
		v, ok := fields[col].(string)
		if !ok || v == "" {
			continue
		}
		if !contains(allowed, v) {
			return invalid(CodeBadEnum, col)
		}
	}
	for col, r := range spec.Ranges {
		f, ok := numeric(fields[col])
		if !ok {
			continue
		}
		if f < r.Min || (r.Max > 0 && f > r.Max) {
			return invalid(CodeOutOfRange, col)
		}
	}
	return valid()
}

// absent treats the zero surrogate id, the empty string, and the zero time
// as missing; other numeric zeroes are legitimate values.
func absent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case uint:
		return x == 0
	case *uint:
		return x == nil || *x == 0
	case string:
		return x == ""
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}

func refID(v any) (uint, bool) {
	switch x := v.(type) {
	case uint:
		return x, x != 0
	case *uint:
		if x == nil {
			return 0, false
		}
		return *x, *x != 0
	default:
		return 0, false
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
