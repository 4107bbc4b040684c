// Package uritemplate compiles the {name} placeholders of an annotation URI
// template into an ordered substitution plan.
package uritemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/toyz/relay/internal/errors"
)

var placeholder = regexp.MustCompile(`\{\w+\}`)

// Segment is either literal text or a reference to a bound parameter
type Segment struct {
	Literal string
	Var     string // template variable, empty for literal segments
	Param   string // parameter bound to Var
}

// IsVar reports whether the segment is a placeholder
func (s Segment) IsVar() bool {
	return s.Var != ""
}

// Location is where a placeholder sits in the URI
type Location int

const (
	InPath Location = iota
	InQuery
)

// String returns the OpenAPI name of the location
func (l Location) String() string {
	if l == InQuery {
		return "query"
	}
	return "path"
}

// Plan is a compiled URI template
type Plan struct {
	Template string
	Segments []Segment
}

// Compile scans template left to right for non-overlapping {name}
// placeholders and binds each one through values, which maps template
// variable names to parameter names. A placeholder with no entry is an
// UnboundUriVariable diagnostic.
func Compile(template string, values map[string]string) (*Plan, error) {
	plan := &Plan{Template: template}
	last := 0
	for _, m := range placeholder.FindAllStringIndex(template, -1) {
		name := template[m[0]+1 : m[1]-1]
		param, ok := values[name]
		if !ok {
			return nil, errors.NewUnboundUriVariable(name, errors.SourceLocation{})
		}
		if m[0] > last {
			plan.Segments = append(plan.Segments, Segment{Literal: template[last:m[0]]})
		}
		plan.Segments = append(plan.Segments, Segment{Var: name, Param: param})
		last = m[1]
	}
	if last < len(template) {
		plan.Segments = append(plan.Segments, Segment{Literal: template[last:]})
	}
	return plan, nil
}

// IsStatic reports whether the template has no placeholders
func (p *Plan) IsStatic() bool {
	for _, s := range p.Segments {
		if s.IsVar() {
			return false
		}
	}
	return true
}

// Vars returns the template variables in order of appearance
func (p *Plan) Vars() []string {
	var vars []string
	for _, s := range p.Segments {
		if s.IsVar() {
			vars = append(vars, s.Var)
		}
	}
	return vars
}

// Params returns the bound parameter names in order of appearance, which is
// the argument order of the format string.
func (p *Plan) Params() []string {
	var params []string
	for _, s := range p.Segments {
		if s.IsVar() {
			params = append(params, s.Param)
		}
	}
	return params
}

// Format returns a fmt format string with one %s slot per placeholder
func (p *Plan) Format() string {
	var b strings.Builder
	for _, s := range p.Segments {
		if s.IsVar() {
			b.WriteString("%s")
			continue
		}
		b.WriteString(strings.ReplaceAll(s.Literal, "%", "%%"))
	}
	return b.String()
}

// GoExpr renders the Go expression producing the URI. A static template is a
// plain string literal; otherwise it is a fmt.Sprintf call whose arguments
// are produced by arg for each bound parameter.
func (p *Plan) GoExpr(arg func(param string) string) string {
	if p.IsStatic() {
		return strconv.Quote(p.Template)
	}
	args := make([]string, 0, len(p.Segments))
	for _, param := range p.Params() {
		args = append(args, arg(param))
	}
	return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(p.Format()), strings.Join(args, ", "))
}

// Render substitutes values, keyed by template variable, into the template.
// Values are inserted as given, without escaping.
func (p *Plan) Render(values map[string]string) (string, error) {
	var b strings.Builder
	for _, s := range p.Segments {
		if !s.IsVar() {
			b.WriteString(s.Literal)
			continue
		}
		v, ok := values[s.Var]
		if !ok {
			return "", fmt.Errorf("no value for template variable {%s}", s.Var)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Locations reports for each variable whether it appears before or after
// the first '?' of the template.
func (p *Plan) Locations() map[string]Location {
	locs := make(map[string]Location)
	query := false
	for _, s := range p.Segments {
		if s.IsVar() {
			if _, seen := locs[s.Var]; !seen {
				if query {
					locs[s.Var] = InQuery
				} else {
					locs[s.Var] = InPath
				}
			}
			continue
		}
		if strings.Contains(s.Literal, "?") {
			query = true
		}
	}
	return locs
}

// Path returns the template up to the query string, the part OpenAPI calls the path
func (p *Plan) Path() string {
	if i := strings.IndexByte(p.Template, '?'); i >= 0 {
		return p.Template[:i]
	}
	return p.Template
}
