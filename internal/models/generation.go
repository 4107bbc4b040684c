package models

// DefaultOutputFile is the name of the generated file in each package
const DefaultOutputFile = "autogen_client.go"

// GeneratedFile represents a generated client file
type GeneratedFile struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Content     string   // generated Go code content
	Clients     []string // generated struct names
}
