package parser

import (
	"github.com/toyz/relay/internal/annotations"
	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/pkg/relay"
)

// ParseRequest turns a verb annotation into a RequestSpec. The first argument
// is the path literal, the second the request content type.
func ParseRequest(a *annotations.ParsedAnnotation) (models.RequestSpec, error) {
	spec := models.RequestSpec{
		Verb:         a.Verb(),
		PathTemplate: models.DefaultPath,
	}

	if limit := annotations.RequestAnnotationSchema.MaxArgs(); len(a.Args) > limit {
		return spec, errors.NewTooManyArguments(a.Name, limit, len(a.Args), a.Location)
	}

	if path, ok := a.Arg(0); ok {
		if !path.IsLiteral() {
			return spec, errors.NewInvalidArgumentType(a.Name, "path", "a string literal", path.Kind.String(), a.Location)
		}
		spec.PathTemplate = path.Value
	}

	if ct, ok := a.Arg(1); ok {
		mimeExpr, err := parseContentType(ct, a.Location)
		if err != nil {
			return spec, err
		}
		spec.ContentType = mimeExpr
	}

	return spec, nil
}

// ParseExpect turns an expect annotation into an ExpectSpec. A nil annotation
// yields the default expectation: status 200 and the client's default
// response content type.
func ParseExpect(a *annotations.ParsedAnnotation) (models.ExpectSpec, error) {
	spec := models.DefaultExpectSpec()
	if a == nil {
		return spec, nil
	}

	if limit := annotations.ExpectAnnotationSchema.MaxArgs(); len(a.Args) > limit {
		return spec, errors.NewTooManyArguments(a.Name, limit, len(a.Args), a.Location)
	}

	if status, ok := a.Arg(0); ok {
		switch status.Kind {
		case annotations.IntArg:
			code, err := status.Int()
			if err != nil || code < minStatus || code > maxStatus {
				return spec, errors.NewInvalidStatusCode(code, a.Location)
			}
			spec.Status = models.StatusExpr{Code: code}
		case annotations.RefArg:
			spec.Status = models.StatusExpr{Ref: status.Value}
		default:
			return spec, errors.NewInvalidArgumentType(a.Name, "status", "an integer literal", status.Kind.String(), a.Location)
		}
	}

	if ct, ok := a.Arg(1); ok {
		mimeExpr, err := parseContentType(ct, a.Location)
		if err != nil {
			return spec, err
		}
		spec.ContentType = mimeExpr
	}

	return spec, nil
}

// parseContentType accepts a reference or a string literal that parses as a
// type/subtype media type, the same check the client applies at run time
func parseContentType(arg annotations.Arg, loc errors.SourceLocation) (*models.MimeExpr, error) {
	switch arg.Kind {
	case annotations.StringArg:
		if _, err := relay.ParseMediaType(arg.Value); err != nil {
			return nil, errors.NewInvalidContentType(arg.Value, err, loc)
		}
		return models.LiteralExpr(arg.Value), nil
	case annotations.RefArg:
		return models.RefExpr(arg.Value), nil
	default:
		return nil, errors.NewInvalidContentType(arg.Value, nil, loc)
	}
}
