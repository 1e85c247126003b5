package inputs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pursgen.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFlags_Load(t *testing.T) {
	path := writeConfig(t, `
module = "Fruits"
packages = ["./fruits"]
types = ["Fruit"]
`)

	cfg, err := (&Flags{Config: path}).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Module != "Fruits" || strings.Join(cfg.Types, ",") != "Fruit" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Dir != filepath.Dir(path) {
		t.Errorf("Dir = %q, want %q", cfg.Dir, filepath.Dir(path))
	}
}

func TestFlags_Overrides(t *testing.T) {
	path := writeConfig(t, `
module = "Fruits"
packages = ["./fruits"]
types = ["Fruit"]
`)

	cfg, err := (&Flags{
		Config:   path,
		Module:   "App.Fruits",
		Types:    []string{"Currency", "Color"},
		Comments: true,
	}).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Module != "App.Fruits" {
		t.Errorf("Module = %q, want App.Fruits", cfg.Module)
	}
	if got := strings.Join(cfg.Types, ","); got != "Currency,Color" {
		t.Errorf("Types = %q, want Currency,Color", got)
	}
	if !cfg.EmitComments {
		t.Error("EmitComments should be set by --comments")
	}

	cfg, err = (&Flags{Config: path, Input: "fruits.yaml"}).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Input != "fruits.yaml" || cfg.Packages != nil {
		t.Errorf("--input should replace packages: %+v", cfg)
	}
}

func TestFlags_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := (&Flags{Module: "Fruits", Packages: []string{"./fruits"}}).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != "source" || cfg.OutDir != "src" {
		t.Errorf("expected defaults, got provider %q out_dir %q", cfg.Provider, cfg.OutDir)
	}
}

func TestFlags_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		flags   Flags
		wantErr string
	}{
		{
			name:    "nothing to generate",
			flags:   Flags{Module: "Fruits"},
			wantErr: "packages: required unless Input is set",
		},
		{
			name:    "missing module",
			flags:   Flags{Packages: []string{"./fruits"}},
			wantErr: "module: required unless Input is set",
		},
		{
			name:    "bad provider",
			flags:   Flags{Module: "Fruits", Packages: []string{"./fruits"}, Provider: "magic"},
			wantErr: "provider: must be source",
		},
		{
			name:    "reflection provider",
			flags:   Flags{Module: "Fruits", Packages: []string{"./fruits"}, Provider: "reflection"},
			wantErr: "provider: reflection is only available from the Go API",
		},
		{
			name:    "missing config file",
			flags:   Flags{Config: "missing.toml"},
			wantErr: "failed to read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
