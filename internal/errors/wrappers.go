package errors

import "fmt"

// Constructors for the annotation diagnostics. Each one carries the hint that
// the CLI prints underneath the message.

// NewMissingRequestAttribute reports a method without a verb annotation
func NewMissingRequestAttribute(method string, loc SourceLocation) *BaseError {
	return Newf(MissingRequestAttribute, "method `%s` has no request annotation", method).
		WithLocation(loc).
		WithContext("method", method).
		WithSuggestion("Add one of: //relay::get, post, put, delete, head, options, connect, patch, trace")
}

// NewDuplicateAttribute reports a second request or expect annotation on one method
func NewDuplicateAttribute(method, kind string, loc SourceLocation) *BaseError {
	return Newf(DuplicateAttribute, "method `%s` has duplicate %s annotation", method, kind).
		WithLocation(loc).
		WithContext("method", method).
		WithSuggestion(fmt.Sprintf("Keep a single %s annotation per method", kind))
}

// NewTooManyArguments reports a descriptor with more positional arguments than allowed
func NewTooManyArguments(annotation string, max, got int, loc SourceLocation) *BaseError {
	return Newf(TooManyArguments, "%s annotation takes at most %d arguments, got %d", annotation, max, got).
		WithLocation(loc).
		WithSuggestion("Request format: //relay::get \"/path\" [content-type]; expect format: //relay::expect 200 [content-type]")
}

// NewInvalidArgumentType reports an argument of the wrong lexical kind
func NewInvalidArgumentType(annotation, argument, expected, got string, loc SourceLocation) *BaseError {
	return Newf(InvalidArgumentType, "%s annotation: %s should be %s, got %s", annotation, argument, expected, got).
		WithLocation(loc).
		WithContext("argument", argument)
}

// NewInvalidContentType reports a content type that is neither a valid media type nor a reference
func NewInvalidContentType(value string, cause error, loc SourceLocation) *BaseError {
	err := Newf(InvalidContentType, "invalid content-type (%s)", value).
		WithLocation(loc).
		WithSuggestion("Use a quoted media type like \"application/json\" or a constant like relay.ApplicationJSON")
	if cause != nil {
		err.Message = fmt.Sprintf("%s: %v", err.Message, cause)
		err.Cause = cause
	}
	return err
}

// NewInvalidHeaderName reports a header binding whose name is not a string or reference
func NewInvalidHeaderName(param string, loc SourceLocation) *BaseError {
	return Newf(InvalidHeaderName, "header name for parameter `%s` should be a string literal or a constant", param).
		WithLocation(loc).
		WithSuggestion("Example: //relay::header token \"Authorization\"")
}

// NewDuplicateBody reports a second body binding on one method
func NewDuplicateBody(param, existing string, loc SourceLocation) *BaseError {
	return Newf(DuplicateBody, "duplicate body: %s against %s", param, existing).
		WithLocation(loc).
		WithSuggestion("A method can send at most one body parameter")
}

// NewAmbiguousRole reports a parameter bound by more than one role annotation
func NewAmbiguousRole(param string, loc SourceLocation) *BaseError {
	return Newf(AmbiguousRole, "parameter `%s` can only be one of 'value', 'header' or 'body'", param).
		WithLocation(loc)
}

// NewUnboundUriVariable reports a template placeholder with no value parameter
func NewUnboundUriVariable(name string, loc SourceLocation) *BaseError {
	return Newf(UnboundUriVariable, "uri template variable {%s} has no parameter support", name).
		WithLocation(loc).
		WithContext("variable", name).
		WithSuggestion(fmt.Sprintf("Add a parameter named %s or rename one with //relay::value <param> %s", name, name))
}

// NewInvalidAnnotation reports an annotation line the grammar rejects
func NewInvalidAnnotation(raw string, cause error, loc SourceLocation) *BaseError {
	return Wrapf(InvalidAnnotation, cause, "malformed annotation %q", raw).
		WithLocation(loc)
}

// NewUnknownAnnotation reports a relay:: annotation with an unrecognised name
func NewUnknownAnnotation(name string, loc SourceLocation) *BaseError {
	return Newf(UnknownAnnotation, "unknown annotation relay::%s", name).
		WithLocation(loc).
		WithSuggestion("Supported annotations: client, get, post, put, delete, head, options, connect, patch, trace, expect, value, header, body")
}

// NewInvalidStatusCode reports an out-of-range expected status
func NewInvalidStatusCode(code int, loc SourceLocation) *BaseError {
	return Newf(InvalidStatusCode, "invalid status code: %d", code).
		WithLocation(loc).
		WithSuggestion("Status codes must be between 100 and 999")
}

// NewUnknownParameter reports a role annotation naming a parameter the method does not have
func NewUnknownParameter(method, param string, loc SourceLocation) *BaseError {
	return Newf(UnknownParameter, "method `%s` has no parameter `%s`", method, param).
		WithLocation(loc)
}

// NewDuplicateValue reports two value bindings that resolve to the same template name
func NewDuplicateValue(name string, loc SourceLocation) *BaseError {
	return Newf(DuplicateValue, "more than one parameter is bound to value `%s`", name).
		WithLocation(loc)
}

// NewInvalidSignature reports a method shape the generator cannot implement
func NewInvalidSignature(method, reason string, loc SourceLocation) *BaseError {
	return Newf(InvalidSignature, "method `%s`: %s", method, reason).
		WithLocation(loc).
		WithSuggestion("Return (*relay.Response[T], error), (T, error) or error; context.Context may only be the first parameter")
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	return Wrap(TemplateErrorCode, fmt.Sprintf("failed to %s template '%s'", operation, templateName), cause).
		WithContext("template", templateName)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration loading and validation errors
func WrapConfigurationError(item string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("invalid configuration: %s", item), cause)
}
