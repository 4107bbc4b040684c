package parser

import (
	"go/ast"
	"go/types"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
)

// AnalyzeSignature classifies a method's parameters and result shape. A
// leading context.Context becomes the call context and is never bound to
// the request.
func AnalyzeSignature(method string, ft *ast.FuncType, loc errors.SourceLocation) (models.Signature, error) {
	sig := models.Signature{}

	index := 0
	if ft.Params != nil {
		for _, field := range ft.Params.List {
			typeStr := types.ExprString(field.Type)
			if _, variadic := field.Type.(*ast.Ellipsis); variadic {
				return sig, errors.NewInvalidSignature(method, "variadic parameters are not supported", loc)
			}
			if len(field.Names) == 0 {
				return sig, errors.NewInvalidSignature(method, "parameters must be named", loc)
			}
			for _, name := range field.Names {
				if typeStr == ContextType {
					if index != 0 {
						return sig, errors.NewInvalidSignature(method, "context.Context must be the first parameter", loc)
					}
					if name.Name == "_" {
						return sig, errors.NewInvalidSignature(method, "the context parameter must be named", loc)
					}
					sig.HasContext = true
					sig.ContextName = name.Name
				} else {
					if name.Name == "_" {
						return sig, errors.NewInvalidSignature(method, "blank parameter names cannot be bound", loc)
					}
					sig.Params = append(sig.Params, models.Param{Name: name.Name, Type: typeStr, Index: index})
				}
				index++
			}
		}
	}

	var results []ast.Expr
	if ft.Results != nil {
		for _, field := range ft.Results.List {
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, field.Type)
			}
		}
	}

	switch {
	case len(results) == 1 && isError(results[0]):
		sig.Shape = models.ReturnError
		sig.PayloadType = EmptyPayload
	case len(results) == 2 && isError(results[1]):
		if payload, ok := responsePayload(results[0]); ok {
			sig.Shape = models.ReturnResponseError
			sig.PayloadType = payload
		} else {
			sig.Shape = models.ReturnValueError
			sig.PayloadType = types.ExprString(results[0])
		}
	default:
		return sig, errors.NewInvalidSignature(method, "unsupported result list", loc)
	}

	return sig, nil
}

func isError(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

// responsePayload extracts T from *relay.Response[T]
func responsePayload(expr ast.Expr) (string, bool) {
	star, ok := expr.(*ast.StarExpr)
	if !ok {
		return "", false
	}
	index, ok := star.X.(*ast.IndexExpr)
	if !ok {
		return "", false
	}
	sel, ok := index.X.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != ResponseType {
		return "", false
	}
	pkg, ok := sel.X.(*ast.Ident)
	if !ok || pkg.Name != RelayPackage {
		return "", false
	}
	return types.ExprString(index.Index), true
}
