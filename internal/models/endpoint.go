package models

import "github.com/toyz/relay/internal/errors"

// DefaultPath is the URI template used when a request annotation has no path
const DefaultPath = "/"

// DefaultStatus is expected when a method has no expect annotation
const DefaultStatus = 200

// RequestSpec describes the outgoing request of a method
type RequestSpec struct {
	Verb         string    // upper-case HTTP method
	PathTemplate string    // URI template with {name} placeholders
	ContentType  *MimeExpr // nil means the client's default request content type
}

// ExpectSpec describes the response a method accepts
type ExpectSpec struct {
	Status      StatusExpr
	ContentType *MimeExpr // nil means the client's default response content type
}

// DefaultExpectSpec is used for methods without an expect annotation
func DefaultExpectSpec() ExpectSpec {
	return ExpectSpec{Status: StatusExpr{Code: DefaultStatus}}
}

// Param is one declared method parameter
type Param struct {
	Name  string
	Type  string // Go type expression as written in the source
	Index int    // position in the method signature, context included
}

// ValueBinding ties a parameter to a URI template variable
type ValueBinding struct {
	Param Param
	Key   string // template variable name, the rename or the parameter name
}

// HeaderBinding ties a parameter to a request header
type HeaderBinding struct {
	Param Param
	Name  Expr
}

// ParameterMap is the classified view of a method's parameters
type ParameterMap struct {
	Values  map[string]ValueBinding // keyed by template variable name
	Headers []HeaderBinding         // in parameter declaration order
	Body    *Param
}

// NewParameterMap creates an empty parameter map
func NewParameterMap() ParameterMap {
	return ParameterMap{Values: make(map[string]ValueBinding)}
}

// ValueNames returns the parameter name bound to every template variable
func (p ParameterMap) ValueNames() map[string]string {
	names := make(map[string]string, len(p.Values))
	for key, binding := range p.Values {
		names[key] = binding.Param.Name
	}
	return names
}

// Signature is the analysed Go method signature
type Signature struct {
	HasContext  bool    // first parameter is context.Context
	ContextName string  // name of the context parameter when present
	Params      []Param // declared parameters, context excluded
	Shape       ReturnShape
	PayloadType string // decoded type T, relay.Empty for ReturnError
}

// Endpoint is the immutable description of one generated method
type Endpoint struct {
	Name      string
	Request   RequestSpec
	Expect    ExpectSpec
	Params    ParameterMap
	Signature Signature
	Location  errors.SourceLocation
}
