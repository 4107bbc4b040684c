package parser

import (
	"fmt"

	"github.com/toyz/relay/internal/annotations"
	"github.com/toyz/relay/internal/errors"
)

// MethodAnnotations groups the annotations of one interface method by purpose
type MethodAnnotations struct {
	Request *annotations.ParsedAnnotation
	Expect  *annotations.ParsedAnnotation // nil when the method has none
	Roles   []*annotations.ParsedAnnotation
}

// ExtractMetadata selects exactly one request descriptor and at most one
// expectation descriptor from a method's annotations. Role annotations are
// passed through in source order.
func ExtractMetadata(method string, anns []*annotations.ParsedAnnotation, loc errors.SourceLocation) (*MethodAnnotations, error) {
	result := &MethodAnnotations{}
	multi := errors.NewMultipleErrors()

	for _, a := range anns {
		switch a.Type {
		case annotations.RequestAnnotation:
			if result.Request != nil {
				multi.Add(errors.NewDuplicateAttribute(method, "request", a.Location))
				continue
			}
			result.Request = a
		case annotations.ExpectAnnotation:
			if result.Expect != nil {
				multi.Add(errors.NewDuplicateAttribute(method, "expect", a.Location))
				continue
			}
			result.Expect = a
		case annotations.ValueAnnotation, annotations.HeaderAnnotation, annotations.BodyAnnotation:
			result.Roles = append(result.Roles, a)
		default:
			multi.Add(errors.NewInvalidAnnotation(a.Raw,
				fmt.Errorf("%s annotation is not allowed on methods", a.Name), a.Location))
		}
	}

	if result.Request == nil {
		multi.Add(errors.NewMissingRequestAttribute(method, loc))
	}

	if err := multi.ErrOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}
