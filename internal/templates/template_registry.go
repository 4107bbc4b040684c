package templates

import (
	"io"
	"sort"
	"sync"
	"text/template"

	"github.com/toyz/relay/internal/errors"
)

// Template names
const (
	FileTemplate   = "file"
	ClientTemplate = "client"
	MethodTemplate = "method"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string

	once   sync.Once
	parsed *template.Template
	err    error
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerClientTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	tmpl, exists := tr.templates[name]
	return tmpl, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	tmpl, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return tmpl
}

// Names returns the registered template names in sorted order
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute renders the named template. All templates are parsed into one set
// on first use so they can include each other.
func (tr *TemplateRegistry) Execute(w io.Writer, name string, data any) error {
	tr.once.Do(tr.parse)
	if tr.err != nil {
		return tr.err
	}
	if tr.parsed.Lookup(name) == nil {
		return errors.WrapTemplateError(name, "lookup", errors.New(errors.TemplateErrorCode, "template not found: "+name))
	}
	if err := tr.parsed.ExecuteTemplate(w, name, data); err != nil {
		return errors.WrapTemplateError(name, "execute", err)
	}
	return nil
}

func (tr *TemplateRegistry) parse() {
	root := template.New("relay")
	for _, name := range tr.Names() {
		if _, err := root.New(name).Parse(tr.templates[name]); err != nil {
			tr.err = errors.WrapTemplateError(name, "parse", err)
			return
		}
	}
	tr.parsed = root
}

// registerFileTemplates registers the generated file layout
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.templates[FileTemplate] = `// Code generated by relay. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
{{range .Clients}}
{{template "client" .}}
{{end}}`
}

// registerClientTemplates registers the client struct and method templates
func (tr *TemplateRegistry) registerClientTemplates() {
	tr.templates[ClientTemplate] = `// {{.StructName}} implements {{.InterfaceName}} over HTTP.
type {{.StructName}} struct {
	client *relay.Client
}

// {{.Constructor}} creates a {{.InterfaceName}} that sends its calls through client.
func {{.Constructor}}(client *relay.Client) *{{.StructName}} {
	return &{{.StructName}}{client: client}
}

var _ {{.InterfaceName}} = (*{{.StructName}})(nil)
{{range .Methods}}
{{template "method" .}}
{{end}}`

	tr.templates[MethodTemplate] = `// {{.Name}} sends {{.Verb}} {{.Path}}.
func ({{.Receiver}} *{{.StructName}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- if .NeedsBackground}}
	{{.Ctx}} := context.Background()
{{- end}}
{{- if .ReturnsResponse}}
	return relay.Invoke[{{.Payload}}]({{.Ctx}}, {{.Receiver}}.client, {{.Call}})
{{- else if .ReturnsValue}}
	{{.Result}}, {{.Err}} := relay.Invoke[{{.Payload}}]({{.Ctx}}, {{.Receiver}}.client, {{.Call}})
	if {{.Err}} != nil {
		var {{.Zero}} {{.Payload}}
		return {{.Zero}}, {{.Err}}
	}
	return {{.Result}}.Body, nil
{{- else}}
	_, {{.Err}} := relay.Invoke[{{.Payload}}]({{.Ctx}}, {{.Receiver}}.client, {{.Call}})
	return {{.Err}}
{{- end}}
}`
}

// DefaultTemplateRegistry is the registry used by the generator
var DefaultTemplateRegistry = NewTemplateRegistry()
