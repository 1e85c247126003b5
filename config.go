package pursgen

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/broady/pursgen/ir"
	"github.com/go-playground/validator/v10"
)

// Provider names.
const (
	ProviderSource     = "source"
	ProviderReflection = "reflection"
)

// DefaultConfigFile is the config file the CLI reads when present.
const DefaultConfigFile = "pursgen.toml"

var validate = validator.New()

func init() {
	// Report fields by the name users write them with.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"toml", "schema"} {
			if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// Empty values are left to required and required_without.
	must(validate.RegisterValidation("purs_module", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ir.IsModuleName(s)
	}))
	must(validate.RegisterValidation("purs_name", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || ir.IsProperName(s)
	}))
	// Reflection needs Go values, which only the Go API can supply.
	must(validate.RegisterValidation("file_provider", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s == ProviderSource
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Config holds the configuration for code generation.
// It is read from pursgen.toml and built up by the Generator methods.
type Config struct {
	// Module is the PureScript module name of the output.
	// e.g. "App.Types"
	Module string `toml:"module" validate:"required_without=Input,purs_module"`

	// OutDir is the directory where the module file is written.
	// Default: "src"
	OutDir string `toml:"out_dir"`

	// Provider selects the type extraction strategy.
	// "source" (default) - uses go/packages for enums, sealed interfaces and comments
	// "reflection" - uses runtime reflection on Go values, set by FromTypes.
	// Config files and the CLI accept only "source".
	Provider string `toml:"provider" validate:"file_provider"`

	// Packages are the Go package patterns analyzed by the source provider.
	// e.g. []string{"./api"}
	Packages []string `toml:"packages" validate:"required_without=Input,dive,required"`

	// Types selects root types by Go name. Empty selects every exported type.
	Types []string `toml:"types" validate:"dive,required"`

	// Input is a JSON or YAML declaration file used instead of Go packages.
	Input string `toml:"input" validate:"excluded_with=Packages"`

	// Dir is the directory Go packages are resolved from.
	Dir string `toml:"dir"`

	// EmitComments writes Go doc comments as PureScript doc comments.
	EmitComments bool `toml:"emit_comments"`

	// Header is written as comment lines at the top of the generated file.
	Header string `toml:"header"`

	// Imports adds or overrides entries of the import table, keyed by the
	// constructor that requires the import.
	Imports map[string]ImportConfig `toml:"imports" validate:"dive,keys,required,endkeys"`

	// TypeMappings overrides the PureScript type of Go types.
	// e.g. map[string]string{"time.Time": "DateTime"}
	TypeMappings map[string]string `toml:"type_mappings" validate:"dive,keys,required,endkeys,required"`
}

// ImportConfig names the library and imported name for an import marker.
type ImportConfig struct {
	Library string `toml:"library" validate:"required,purs_module"`
	Name    string `toml:"name" validate:"required,purs_name"`
}

// LoadConfig reads and validates a TOML config file. Relative paths in the
// file resolve against the file's directory.
func LoadConfig(path string) (*Config, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadConfig is LoadConfig without validation, for callers that override
// fields before validating.
func ReadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.OutDir = resolve(base, cfg.OutDir)
	cfg.Input = resolve(base, cfg.Input)
	if cfg.Dir == "" {
		cfg.Dir = base
	} else {
		cfg.Dir = resolve(base, cfg.Dir)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// DecodeConfig reads TOML config from r, applies defaults and validates it.
func DecodeConfig(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every invalid field, keyed by its TOML name.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}

	errs := make([]error, 0, len(valErrs))
	for _, ve := range valErrs {
		key := ve.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		errs = append(errs, fmt.Errorf("%s: %s", key, formatValidationError(ve)))
	}
	return errors.Join(errs...)
}

// ValidateStruct validates v with the rules Config uses, including the
// purs_module and purs_name tags. Fields are reported by their toml or
// schema name.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// applyDefaults fills unset fields in place.
func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderSource
	}
	if c.OutDir == "" {
		c.OutDir = "src"
	}
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
