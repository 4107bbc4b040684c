package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
)

// DefaultConfigFile is loaded from the working directory when --config is not given
const DefaultConfigFile = "relay.yaml"

// Config holds the configuration for the CLI generator after merging
// defaults, the config file and command line flags
type Config struct {
	// Directories to scan; "./..." style patterns recurse
	Directories []string `yaml:"directories" validate:"required,min=1,dive,required"`

	// Module overrides the module path read from go.mod
	Module string `yaml:"module"`

	// Output is the name of the generated file in each package
	Output string `yaml:"output" validate:"required,endswith=.go,excludesall=/"`

	// RelayImport is the import path of the runtime package used by generated code
	RelayImport string `yaml:"relay_import"`

	OpenAPI OpenAPIConfig `yaml:"openapi"`

	Verbose bool `yaml:"verbose"`
	Quiet   bool `yaml:"quiet"`
}

// OpenAPIConfig controls the optional OpenAPI export
type OpenAPIConfig struct {
	File    string   `yaml:"file" validate:"omitempty,endswith=.yaml|endswith=.yml|endswith=.json"`
	Title   string   `yaml:"title"`
	Version string   `yaml:"version"`
	Servers []string `yaml:"servers" validate:"dive,url"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Directories: []string{"./..."},
		Output:      models.DefaultOutputFile,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfigFile reads a YAML config file on top of cfg. Unknown keys are errors.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.WrapConfigurationError(path, err).
			WithSuggestion("Check the YAML syntax and the key names of " + path)
	}
	return nil
}

// Normalize trims whitespace from every string setting
func (c *Config) Normalize() {
	dirs := c.Directories[:0]
	for _, dir := range c.Directories {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	c.Directories = dirs
	c.Module = strings.TrimSpace(c.Module)
	c.Output = strings.TrimSpace(c.Output)
	c.RelayImport = strings.TrimSpace(c.RelayImport)
	c.OpenAPI.File = strings.TrimSpace(c.OpenAPI.File)
}

// Validate checks the merged configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !stderrors.As(err, &invalid) {
		return errors.WrapConfigurationError("config", err)
	}
	messages := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		messages = append(messages, describeField(fe))
	}
	return newUsageError("invalid configuration: %s", strings.Join(messages, "; "))
}

func describeField(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", field)
	case "endswith":
		return fmt.Sprintf("%s must end with %s", field, fe.Param())
	case "excludesall":
		return fmt.Sprintf("%s must be a file name, not a path", field)
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}
