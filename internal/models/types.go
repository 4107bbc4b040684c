package models

import (
	"strconv"
)

// Expr is an annotation value that is either a literal or a symbolic Go
// reference emitted verbatim into generated code.
type Expr struct {
	Literal string
	Ref     string
}

// MimeExpr is a content type given as a literal media type or a reference
type MimeExpr = Expr

// LiteralExpr creates a literal expression
func LiteralExpr(s string) *Expr {
	return &Expr{Literal: s}
}

// RefExpr creates a reference expression
func RefExpr(ref string) *Expr {
	return &Expr{Ref: ref}
}

// IsRef reports whether the expression is a symbolic reference
func (e Expr) IsRef() bool {
	return e.Ref != ""
}

// GoExpr renders the expression as Go source
func (e Expr) GoExpr() string {
	if e.IsRef() {
		return e.Ref
	}
	return strconv.Quote(e.Literal)
}

// String returns the literal or the reference name
func (e Expr) String() string {
	if e.IsRef() {
		return e.Ref
	}
	return e.Literal
}

// StatusExpr is an expected status code, either a number or a constant such as http.StatusCreated
type StatusExpr struct {
	Code int
	Ref  string
}

// GoExpr renders the status as Go source
func (s StatusExpr) GoExpr() string {
	if s.Ref != "" {
		return s.Ref
	}
	return strconv.Itoa(s.Code)
}

// String returns the number or the reference name
func (s StatusExpr) String() string {
	return s.GoExpr()
}

// RoleKind is the way a method parameter contributes to the request
type RoleKind int

const (
	RoleValue RoleKind = iota
	RoleHeader
	RoleBody
)

// String returns the string representation of the role
func (r RoleKind) String() string {
	switch r {
	case RoleValue:
		return "value"
	case RoleHeader:
		return "header"
	case RoleBody:
		return "body"
	default:
		return "unknown"
	}
}

// ReturnShape is one of the supported method result shapes
type ReturnShape int

const (
	ReturnResponseError ReturnShape = iota // (*relay.Response[T], error)
	ReturnValueError                       // (T, error)
	ReturnError                            // error
)

// String returns the string representation of the return shape
func (r ReturnShape) String() string {
	switch r {
	case ReturnResponseError:
		return "(*relay.Response[T], error)"
	case ReturnValueError:
		return "(T, error)"
	case ReturnError:
		return "error"
	default:
		return "unknown"
	}
}
