package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
	"github.com/toyz/relay/internal/uritemplate"
)

// FileData is the input of the file template
type FileData struct {
	PackageName string
	Imports     string
	Clients     []ClientData
}

// ClientData is the input of the client template
type ClientData struct {
	InterfaceName string
	StructName    string
	Constructor   string
	Methods       []MethodData
}

// MethodData is the input of the method template. Local identifiers are
// chosen so they never collide with the method's parameters.
type MethodData struct {
	StructName string
	Name       string
	Verb       string
	Path       string

	Receiver string
	Ctx      string
	Result   string
	Err      string
	Zero     string

	Params  string
	Results string
	Payload string
	Call    string

	NeedsBackground bool
	ReturnsResponse bool
	ReturnsValue    bool
}

// generatedPackages are the package names generated method bodies refer to
var generatedPackages = []string{"relay", "context", "fmt", "http"}

var verbConstants = map[string]string{
	"GET":     "http.MethodGet",
	"POST":    "http.MethodPost",
	"PUT":     "http.MethodPut",
	"DELETE":  "http.MethodDelete",
	"HEAD":    "http.MethodHead",
	"OPTIONS": "http.MethodOptions",
	"CONNECT": "http.MethodConnect",
	"PATCH":   "http.MethodPatch",
	"TRACE":   "http.MethodTrace",
}

// NewClientData builds the template input for one client
func NewClientData(client models.ClientMetadata) (ClientData, error) {
	data := ClientData{
		InterfaceName: client.InterfaceName,
		StructName:    client.StructName,
		Constructor:   client.Constructor,
	}
	for _, endpoint := range client.Endpoints {
		method, err := NewMethodData(client.StructName, endpoint)
		if err != nil {
			return ClientData{}, err
		}
		data.Methods = append(data.Methods, method)
	}
	return data, nil
}

// NewMethodData builds the template input for one endpoint
func NewMethodData(structName string, endpoint models.Endpoint) (MethodData, error) {
	sig := endpoint.Signature
	item := structName + "." + endpoint.Name

	taken := make(map[string]bool)
	for _, pkg := range generatedPackages {
		taken[pkg] = true
	}
	if sig.HasContext {
		taken[sig.ContextName] = true
	}
	for _, p := range sig.Params {
		if isGeneratedPackage(p.Name) {
			return MethodData{}, errors.WrapGenerateError(item,
				fmt.Errorf("parameter %q shadows the %s package used by the generated method", p.Name, p.Name)).
				WithLocation(endpoint.Location).
				WithSuggestion("Rename the parameter")
		}
		taken[p.Name] = true
	}

	plan, err := uritemplate.Compile(endpoint.Request.PathTemplate, endpoint.Params.ValueNames())
	if err != nil {
		return MethodData{}, errors.WrapGenerateError(item, err).WithLocation(endpoint.Location)
	}

	data := MethodData{
		StructName:      structName,
		Name:            endpoint.Name,
		Verb:            endpoint.Request.Verb,
		Path:            endpoint.Request.PathTemplate,
		Receiver:        FreeName("c", taken),
		Params:          paramList(sig),
		Results:         resultList(sig),
		Payload:         sig.PayloadType,
		Call:            BuildCall(endpoint, plan),
		NeedsBackground: !sig.HasContext,
		ReturnsResponse: sig.Shape == models.ReturnResponseError,
		ReturnsValue:    sig.Shape == models.ReturnValueError,
	}
	if sig.HasContext {
		data.Ctx = sig.ContextName
	} else {
		data.Ctx = FreeName("ctx", taken)
	}
	data.Result = FreeName("resp", taken)
	data.Err = FreeName("err", taken)
	data.Zero = FreeName("zero", taken)
	return data, nil
}

// BuildCall renders the relay.Call literal of an endpoint. Header bindings
// keep their declaration order.
func BuildCall(endpoint models.Endpoint, plan *uritemplate.Plan) string {
	var b strings.Builder
	b.WriteString("relay.Call{\n")
	fmt.Fprintf(&b, "Method: %s,\n", MethodExpr(endpoint.Request.Verb))
	fmt.Fprintf(&b, "URL: %s,\n", plan.GoExpr(func(param string) string {
		return "relay.FormatValue(" + param + ")"
	}))
	if ct := endpoint.Request.ContentType; ct != nil {
		fmt.Fprintf(&b, "ContentType: %s,\n", ct.GoExpr())
	}
	if headers := endpoint.Params.Headers; len(headers) > 0 {
		b.WriteString("Headers: []relay.Header{\n")
		for _, h := range headers {
			fmt.Fprintf(&b, "{Name: %s, Value: %s},\n", h.Name.GoExpr(), h.Param.Name)
		}
		b.WriteString("},\n")
	}
	if body := endpoint.Params.Body; body != nil {
		fmt.Fprintf(&b, "Body: %s,\nHasBody: true,\n", body.Name)
	}
	fmt.Fprintf(&b, "Expect: relay.Expect{Status: %s", endpoint.Expect.Status.GoExpr())
	if ct := endpoint.Expect.ContentType; ct != nil {
		fmt.Fprintf(&b, ", ContentType: %s", ct.GoExpr())
	}
	b.WriteString("},\n}")
	return b.String()
}

// MethodExpr returns the net/http constant for a verb, or a string literal
// for verbs it does not name
func MethodExpr(verb string) string {
	if c, ok := verbConstants[verb]; ok {
		return c
	}
	return strconv.Quote(verb)
}

// FreeName returns base, or base followed by the smallest number that is not
// taken, and marks the result as taken
func FreeName(base string, taken map[string]bool) string {
	name := base
	for i := 1; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	taken[name] = true
	return name
}

func paramList(sig models.Signature) string {
	var parts []string
	if sig.HasContext {
		parts = append(parts, sig.ContextName+" context.Context")
	}
	for _, p := range sig.Params {
		parts = append(parts, p.Name+" "+p.Type)
	}
	return strings.Join(parts, ", ")
}

func resultList(sig models.Signature) string {
	switch sig.Shape {
	case models.ReturnResponseError:
		return "(*relay.Response[" + sig.PayloadType + "], error)"
	case models.ReturnValueError:
		return "(" + sig.PayloadType + ", error)"
	default:
		return "error"
	}
}

func isGeneratedPackage(name string) bool {
	for _, pkg := range generatedPackages {
		if pkg == name {
			return true
		}
	}
	return false
}
