package models

import "github.com/toyz/relay/internal/errors"

// ClientMetadata represents one //relay::client interface
type ClientMetadata struct {
	InterfaceName string     // name of the annotated interface
	StructName    string     // generated implementation, <Interface>Client
	Constructor   string     // generated constructor, New<Interface>Client
	Endpoints     []Endpoint // one per interface method, in source order
	Location      errors.SourceLocation
}

// NewClientMetadata derives the generated names from the interface name
func NewClientMetadata(interfaceName string, loc errors.SourceLocation) ClientMetadata {
	return ClientMetadata{
		InterfaceName: interfaceName,
		StructName:    interfaceName + "Client",
		Constructor:   "New" + interfaceName + "Client",
		Location:      loc,
	}
}

// ImportSpec is an import declared by a source file of the package
type ImportSpec struct {
	Name string // explicit alias, empty when none
	Path string
}

// PackageMetadata represents all clients found in a package
type PackageMetadata struct {
	PackageName string           // name of the Go package
	PackagePath string           // file system path to the package
	ImportPath  string           // module-qualified import path, empty when unknown
	Clients     []ClientMetadata // all clients found in the package
	Imports     []ImportSpec     // imports of the annotated source files
}

// HasClients reports whether the package declares anything to generate
func (p *PackageMetadata) HasClients() bool {
	return len(p.Clients) > 0
}

// EndpointCount returns the number of endpoints across all clients
func (p *PackageMetadata) EndpointCount() int {
	n := 0
	for _, c := range p.Clients {
		n += len(c.Endpoints)
	}
	return n
}
