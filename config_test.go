package pursgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
module = "App.Types"
packages = ["./api"]
types = ["Fruit"]
emit_comments = true
header = "Code generated by pursgen. DO NOT EDIT."

[imports.Array]
library = "Data.List"
name = "List"

[type_mappings]
"time.Time" = "DateTime"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	base := filepath.Dir(path)
	if cfg.Module != "App.Types" {
		t.Errorf("Module = %q", cfg.Module)
	}
	if cfg.Provider != ProviderSource {
		t.Errorf("Provider = %q, want default %q", cfg.Provider, ProviderSource)
	}
	if cfg.OutDir != filepath.Join(base, "src") {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, filepath.Join(base, "src"))
	}
	if cfg.Dir != base {
		t.Errorf("Dir = %q, want config directory %q", cfg.Dir, base)
	}
	if !cfg.EmitComments {
		t.Error("EmitComments should be true")
	}
	if got := cfg.Imports["Array"]; got.Library != "Data.List" || got.Name != "List" {
		t.Errorf("Imports[Array] = %+v", got)
	}
	if got := cfg.TypeMappings["time.Time"]; got != "DateTime" {
		t.Errorf("TypeMappings[time.Time] = %q", got)
	}
}

func TestLoadConfig_ResolvesPaths(t *testing.T) {
	path := writeConfig(t, `
module = "Fruits"
input = "decls/fruits.yaml"
out_dir = "/abs/out"
dir = "../go"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	base := filepath.Dir(path)
	if want := filepath.Join(base, "decls", "fruits.yaml"); cfg.Input != want {
		t.Errorf("Input = %q, want %q", cfg.Input, want)
	}
	if cfg.OutDir != "/abs/out" {
		t.Errorf("OutDir = %q, absolute paths should be kept", cfg.OutDir)
	}
	if want := filepath.Join(base, "..", "go"); cfg.Dir != want {
		t.Errorf("Dir = %q, want %q", cfg.Dir, want)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr []string
	}{
		{
			name:    "syntax error",
			content: `module = `,
			wantErr: []string{"failed to read config"},
		},
		{
			name: "unknown key",
			content: `
module = "Fruits"
packages = ["./fruits"]
emit_comment = true
`,
			wantErr: []string{"unknown keys: emit_comment"},
		},
		{
			name:    "missing packages and input",
			content: `module = "Fruits"`,
			wantErr: []string{"packages: required unless Input is set"},
		},
		{
			name: "invalid module name",
			content: `
module = "fruits"
packages = ["./fruits"]
`,
			wantErr: []string{"module: must be a PureScript module name"},
		},
		{
			name: "unknown provider",
			content: `
module = "Fruits"
packages = ["./fruits"]
provider = "magic"
`,
			wantErr: []string{"provider: must be source"},
		},
		{
			name: "reflection provider",
			content: `
module = "Fruits"
packages = ["./fruits"]
provider = "reflection"
`,
			wantErr: []string{"provider: reflection is only available from the Go API (pursgen.FromTypes)"},
		},
		{
			name: "input with packages",
			content: `
module = "Fruits"
packages = ["./fruits"]
input = "fruits.json"
`,
			wantErr: []string{"input: must not be set together with Packages"},
		},
		{
			name: "invalid import",
			content: `
module = "Fruits"
packages = ["./fruits"]

[imports.Array]
library = "Data.List"
name = "list"
`,
			wantErr: []string{"imports[Array].name: must be a PureScript proper name"},
		},
		{
			name: "every problem reported",
			content: `
module = "fruits"
provider = "magic"
`,
			wantErr: []string{"module:", "provider:", "packages:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q should contain %q", err.Error(), want)
				}
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(strings.NewReader(`
module = "Fruits"
packages = ["./fruits"]
`))
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Provider != ProviderSource {
		t.Errorf("Provider = %q, want default source", cfg.Provider)
	}
	if cfg.OutDir != "src" {
		t.Errorf("OutDir = %q, want default src", cfg.OutDir)
	}
	if cfg.Dir != "" {
		t.Errorf("Dir = %q, DecodeConfig should not resolve paths", cfg.Dir)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Module: "Fruits", Provider: ProviderSource, Packages: []string{"./fruits"}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Packages = []string{""}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "packages[0]: required") {
		t.Errorf("expected packages[0] error, got %v", err)
	}
}

func TestReadConfig_SkipsValidation(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, `packages = ["./fruits"]`))
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "module:") {
		t.Errorf("expected missing module error, got %v", err)
	}

	cfg.Module = "Fruits"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed after override: %v", err)
	}
}

func TestValidateStruct(t *testing.T) {
	type query struct {
		Module string   `schema:"module" validate:"purs_module"`
		Types  []string `schema:"type" validate:"dive,purs_name"`
	}

	if err := ValidateStruct(query{Module: "App.Types", Types: []string{"Fruit"}}); err != nil {
		t.Errorf("valid query rejected: %v", err)
	}

	err := ValidateStruct(query{Module: "app", Types: []string{"fruit"}})
	got := ToError(err)
	if got.Code != CodeInvalidArgument {
		t.Fatalf("expected %s, got %v", CodeInvalidArgument, got)
	}
	if _, ok := got.Details["module"]; !ok {
		t.Errorf("expected module detail, got %v", got.Details)
	}
	if _, ok := got.Details["type[0]"]; !ok {
		t.Errorf("expected type[0] detail, got %v", got.Details)
	}
}
