package parser

import (
	"github.com/toyz/relay/internal/annotations"
	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
)

// ClassifyParameters assigns every declared parameter exactly one role.
// Parameters without a role annotation are values keyed by their own name.
// All problems found are reported together.
func ClassifyParameters(method string, params []models.Param, roles []*annotations.ParsedAnnotation) (models.ParameterMap, error) {
	result := models.NewParameterMap()
	multi := errors.NewMultipleErrors()

	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Name] = true
	}

	assigned := make(map[string]*annotations.ParsedAnnotation, len(roles))
	for _, role := range roles {
		target, ok := role.Arg(0)
		if !ok || !target.IsIdent() {
			got := "nothing"
			if ok {
				got = target.Kind.String()
			}
			multi.Add(errors.NewInvalidArgumentType(role.Name, "parameter", "a parameter name", got, role.Location))
			continue
		}
		if !declared[target.Value] {
			multi.Add(errors.NewUnknownParameter(method, target.Value, role.Location))
			continue
		}
		if _, taken := assigned[target.Value]; taken {
			multi.Add(errors.NewAmbiguousRole(target.Value, role.Location))
			continue
		}
		schema, _ := annotations.DefaultRegistry().GetSchema(role.Type)
		if len(role.Args) > schema.MaxArgs() {
			multi.Add(errors.NewTooManyArguments(role.Name, schema.MaxArgs(), len(role.Args), role.Location))
			continue
		}
		assigned[target.Value] = role
	}

	for _, p := range params {
		role, ok := assigned[p.Name]
		if !ok {
			addValue(&result, multi, p, p.Name, errors.SourceLocation{})
			continue
		}

		switch role.Type {
		case annotations.ValueAnnotation:
			key := p.Name
			if rename, ok := role.Arg(1); ok {
				if !rename.IsIdent() {
					multi.Add(errors.NewInvalidArgumentType(role.Name, "rename", "an identifier", rename.Kind.String(), role.Location))
					continue
				}
				key = rename.Value
			}
			addValue(&result, multi, p, key, role.Location)
		case annotations.HeaderAnnotation:
			name, ok := role.Arg(1)
			if !ok {
				multi.Add(errors.NewInvalidHeaderName(p.Name, role.Location))
				continue
			}
			switch name.Kind {
			case annotations.StringArg:
				result.Headers = append(result.Headers, models.HeaderBinding{Param: p, Name: models.Expr{Literal: name.Value}})
			case annotations.RefArg:
				result.Headers = append(result.Headers, models.HeaderBinding{Param: p, Name: models.Expr{Ref: name.Value}})
			default:
				multi.Add(errors.NewInvalidHeaderName(p.Name, role.Location))
			}
		case annotations.BodyAnnotation:
			if result.Body != nil {
				multi.Add(errors.NewDuplicateBody(p.Name, result.Body.Name, role.Location))
				continue
			}
			body := p
			result.Body = &body
		}
	}

	if err := multi.ErrOrNil(); err != nil {
		return result, err
	}
	return result, nil
}

func addValue(result *models.ParameterMap, multi *errors.MultipleErrors, p models.Param, key string, loc errors.SourceLocation) {
	if _, exists := result.Values[key]; exists {
		multi.Add(errors.NewDuplicateValue(key, loc))
		return
	}
	result.Values[key] = models.ValueBinding{Param: p, Key: key}
}
