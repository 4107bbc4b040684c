// Package openapi describes parsed relay clients as an OpenAPI 3 document.
package openapi

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/internal/uritemplate"
	"github.com/toyz/relay/pkg/relay"
)

// Version of the OpenAPI specification the documents declare
const Version = "3.0.3"

// Options describes the document itself
type Options struct {
	Title       string
	Version     string
	Servers     []string
	ContentType string // media type assumed when a method declares none
}

// relayConstants resolves the runtime constants annotations may refer to
var relayConstants = map[string]string{
	"relay.ApplicationJSON":        relay.ApplicationJSON,
	"relay.ApplicationJavascript":  relay.ApplicationJavascript,
	"relay.ApplicationXML":         relay.ApplicationXML,
	"relay.TextXML":                relay.TextXML,
	"relay.ApplicationForm":        relay.ApplicationForm,
	"relay.ApplicationMsgpack":     relay.ApplicationMsgpack,
	"relay.ApplicationXMsgpack":    relay.ApplicationXMsgpack,
	"relay.ApplicationProtobuf":    relay.ApplicationProtobuf,
	"relay.ApplicationXProtobuf":   relay.ApplicationXProtobuf,
	"relay.ApplicationYAML":        relay.ApplicationYAML,
	"relay.ApplicationXYAML":       relay.ApplicationXYAML,
	"relay.TextYAML":               relay.TextYAML,
	"relay.TextHTML":               relay.TextHTML,
	"relay.TextPlain":              relay.TextPlain,
	"relay.ApplicationOctetStream": relay.ApplicationOctetStream,
	"relay.HeaderContentType":      relay.HeaderContentType,
	"relay.HeaderAccept":           relay.HeaderAccept,
	"relay.HeaderAuthorization":    relay.HeaderAuthorization,
	"relay.HeaderUserAgent":        relay.HeaderUserAgent,
	"relay.HeaderRequestID":        relay.HeaderRequestID,
}

// statusConstants maps http.StatusXxx names to their codes
var statusConstants = func() map[string]int {
	m := make(map[string]int)
	for code := 100; code < 600; code++ {
		text := http.StatusText(code)
		if text == "" {
			continue
		}
		name := strings.NewReplacer(" ", "", "-", "", "'", "").Replace(text)
		m["http.Status"+name] = code
	}
	m["http.StatusTeapot"] = http.StatusTeapot
	return m
}()

// Build creates a document with one operation per endpoint of every client
func Build(packages []*models.PackageMetadata, opts Options) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = "relay clients"
	}
	if opts.Version == "" {
		opts.Version = "0.0.0"
	}
	if opts.ContentType == "" {
		opts.ContentType = relay.ApplicationJSON
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: opts.Title, Version: opts.Version},
		Paths:   openapi3.NewPaths(),
	}
	for _, server := range opts.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: server})
	}

	multi := errors.NewMultipleErrors()
	for _, pkg := range packages {
		if pkg == nil {
			continue
		}
		for _, client := range pkg.Clients {
			doc.Tags = append(doc.Tags, &openapi3.Tag{Name: client.InterfaceName})
			for _, endpoint := range client.Endpoints {
				if err := addOperation(doc, client, endpoint, opts); err != nil {
					multi.Add(err)
				}
			}
		}
	}
	if err := multi.ErrOrNil(); err != nil {
		return nil, err
	}
	sort.Slice(doc.Tags, func(i, j int) bool { return doc.Tags[i].Name < doc.Tags[j].Name })

	if err := doc.Validate(context.Background()); err != nil {
		return nil, errors.WrapGenerateError("OpenAPI document", err)
	}
	return doc, nil
}

func addOperation(doc *openapi3.T, client models.ClientMetadata, endpoint models.Endpoint, opts Options) errors.RelayError {
	id := client.InterfaceName + "." + endpoint.Name
	plan, err := uritemplate.Compile(endpoint.Request.PathTemplate, endpoint.Params.ValueNames())
	if err != nil {
		return errors.WrapGenerateError(id, err).WithLocation(endpoint.Location)
	}

	path := pathOf(plan)
	if item := doc.Paths.Value(path); item != nil && item.GetOperation(endpoint.Request.Verb) != nil {
		return errors.Newf(errors.GenerationErrorCode, "%s: %s %s is already described by another method", id, endpoint.Request.Verb, path).
			WithLocation(endpoint.Location)
	}

	op := openapi3.NewOperation()
	op.OperationID = id
	op.Tags = []string{client.InterfaceName}
	op.Summary = fmt.Sprintf("%s %s", endpoint.Request.Verb, endpoint.Request.PathTemplate)

	locations := plan.Locations()
	for _, key := range plan.Vars() {
		binding := endpoint.Params.Values[key]
		var param *openapi3.Parameter
		if locations[key] == uritemplate.InQuery {
			param = openapi3.NewQueryParameter(key).WithRequired(true)
		} else {
			param = openapi3.NewPathParameter(key)
		}
		if !hasParameter(op, param) {
			op.AddParameter(param.WithSchema(SchemaFor(binding.Param.Type)))
		}
	}
	for _, h := range endpoint.Params.Headers {
		op.AddParameter(openapi3.NewHeaderParameter(resolve(h.Name)).
			WithRequired(true).
			WithSchema(SchemaFor(h.Param.Type)))
	}

	if body := endpoint.Params.Body; body != nil {
		contentType := opts.ContentType
		if ct := endpoint.Request.ContentType; ct != nil {
			contentType = resolve(*ct)
		}
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchema(SchemaFor(body.Type), []string{contentType}))}
	}

	response := openapi3.NewResponse().WithDescription(fmt.Sprintf("%s result", endpoint.Name))
	if endpoint.Signature.Shape != models.ReturnError {
		contentType := opts.ContentType
		if ct := endpoint.Expect.ContentType; ct != nil {
			contentType = resolve(*ct)
		}
		response.WithContent(openapi3.NewContentWithSchema(SchemaFor(endpoint.Signature.PayloadType), []string{contentType}))
	}
	op.Responses = &openapi3.Responses{}
	op.Responses.Set(statusKey(endpoint.Expect.Status), &openapi3.ResponseRef{Value: response})

	doc.AddOperation(path, endpoint.Request.Verb, op)
	return nil
}

// pathOf returns the path part of the template, dropping any scheme and host
func pathOf(plan *uritemplate.Plan) string {
	path := plan.Path()
	if _, rest, ok := strings.Cut(path, "://"); ok {
		path = "/"
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			path = rest[i:]
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func hasParameter(op *openapi3.Operation, p *openapi3.Parameter) bool {
	return op.Parameters.GetByInAndName(p.In, p.Name) != nil
}

// resolve turns an annotation expression into the string it stands for.
// Unknown references are kept as written.
func resolve(e models.Expr) string {
	if !e.IsRef() {
		return e.Literal
	}
	if v, ok := relayConstants[e.Ref]; ok {
		return v
	}
	return e.Ref
}

// statusKey returns the responses key of an expected status
func statusKey(s models.StatusExpr) string {
	if s.Ref == "" {
		return fmt.Sprint(s.Code)
	}
	if code, ok := statusConstants[s.Ref]; ok {
		return fmt.Sprint(code)
	}
	return "default"
}

// SchemaFor maps a Go type expression to a schema. Named types outside the
// standard set become objects titled with the type name.
func SchemaFor(goType string) *openapi3.Schema {
	t := strings.TrimPrefix(goType, "*")
	switch {
	case t == "[]byte":
		return openapi3.NewBytesSchema()
	case strings.HasPrefix(t, "[]"):
		return openapi3.NewArraySchema().WithItems(SchemaFor(t[2:]))
	case strings.HasPrefix(t, "map["):
		return openapi3.NewObjectSchema()
	}
	switch t {
	case "string":
		return openapi3.NewStringSchema()
	case "bool":
		return openapi3.NewBoolSchema()
	case "int", "int8", "int16", "int32", "uint", "uint8", "uint16", "uint32":
		return openapi3.NewInt32Schema()
	case "int64", "uint64":
		return openapi3.NewInt64Schema()
	case "float32", "float64":
		return openapi3.NewFloat64Schema()
	case "time.Time":
		return openapi3.NewDateTimeSchema()
	case "uuid.UUID":
		return openapi3.NewUUIDSchema()
	case "any", "interface{}":
		return openapi3.NewSchema()
	}
	schema := openapi3.NewObjectSchema()
	schema.Title = t
	return schema
}

// Marshal renders doc as YAML, or as indented JSON when filename ends in .json
func Marshal(doc *openapi3.T, filename string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		return append(data, '\n'), nil
	}

	// JSON is YAML; decoding into a node keeps the key order
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	plain(&node)
	return yaml.Marshal(&node)
}

// plain drops the JSON quoting style so the encoder picks YAML's own
func plain(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		plain(c)
	}
}
