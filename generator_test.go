package pursgen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/broady/pursgen/ir"
	"github.com/broady/pursgen/sink"
)

const fruitsModule = "module Fruits where\n\nimport Data.Array (\nArray\n)\n\ndata Currency = Coins | Credits | Abolished\n\ndata Color = Red Int | Green Int | Blue (Array Int)\n\ndata Fruit = Fruit { color :: Color, price :: Int, currency :: Currency, }\n\n"

type Currency int

type Color interface{ isColor() }

type (
	Red   int
	Green int
	Blue  []int
)

func (Red) isColor()   {}
func (Green) isColor() {}
func (Blue) isColor()  {}

type Fruit struct {
	Color    Color `json:"color"`
	Price    int
	Currency Currency `json:"currency"`
}

type Basket struct {
	Fruits  []Fruit   `json:"fruits"`
	Packed  time.Time `json:"packed"`
	Barcode Barcode   `json:"barcode"`
}

type Barcode struct {
	Prefix, Number int
}

func fruitsGenerator() *Generator {
	return FromTypes(Currency(0), reflect.TypeFor[Color](), Fruit{}).
		Enum(Currency(0), "Coins", "Credits", "Abolished").
		Union(reflect.TypeFor[Color](), Red(0), Green(0), Blue(nil)).
		Module("Fruits")
}

func fruitsDeclarations() *ir.Module {
	return ir.NewModule("Fruits",
		ir.Union(ir.Con("Currency"), ir.Con("Coins"), ir.Con("Credits"), ir.Con("Abolished")),
		ir.Union(ir.Con("Color"),
			ir.Con("Red", ir.Con("Int")),
			ir.Con("Green", ir.Con("Int")),
			ir.Con("Blue", ir.Con("Array", ir.Con("Int"))),
		),
		ir.Record(ir.Con("Fruit"),
			ir.Field{Name: "color", Type: ir.Con("Color")},
			ir.Field{Name: "price", Type: ir.Con("Int")},
			ir.Field{Name: "currency", Type: ir.Con("Currency")},
		),
	)
}

func TestFromTypes_Generate(t *testing.T) {
	res, err := fruitsGenerator().Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(res.Files) != 1 || res.Files[0].Path != "Fruits.purs" {
		t.Fatalf("unexpected files: %+v", res.Files)
	}
	if got := string(res.Content["Fruits.purs"]); got != fruitsModule {
		t.Errorf("content =\n%s\nwant:\n%s", got, fruitsModule)
	}
	if res.Module.Name != "Fruits" {
		t.Errorf("Module.Name = %q", res.Module.Name)
	}
}

func TestFromTypes_ToDir(t *testing.T) {
	dir := t.TempDir()

	res, err := fruitsGenerator().Module("App.Fruits").ToDir(dir)
	if err != nil {
		t.Fatalf("ToDir failed: %v", err)
	}

	path := filepath.Join(dir, "App", "Fruits.purs")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read generated file: %v", err)
	}
	if !strings.HasPrefix(string(content), "module App.Fruits where\n") {
		t.Errorf("unexpected module header: %q", content)
	}
	if res.Files[0].Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", res.Files[0].Size, len(content))
	}
	if res.Content != nil {
		t.Error("ToDir should not return content")
	}
}

func TestFromTypes_Options(t *testing.T) {
	got, err := FromTypes(Basket{}).
		Enum(Currency(0), "Coins", "Credits", "Abolished").
		Union(reflect.TypeFor[Color](), Red(0), Green(0), Blue(nil)).
		Positional(Barcode{}).
		TypeMapping("time.Time", "DateTime").
		Import("Array", "Data.List", "List").
		Header("Code generated by pursgen. DO NOT EDIT.").
		Module("Shop").
		Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"-- Code generated by pursgen. DO NOT EDIT.\n",
		"import Data.List (\nList\n)\n",
		"data Barcode = Barcode Int Int\n",
		"data Basket = Basket { fruits :: Array Fruit, packed :: DateTime, barcode :: Barcode, }\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFromPackages(t *testing.T) {
	got, err := FromPackages("./provider/testdata/fruits").
		Module("Fruits").
		Types("Currency", "Color", "Fruit").
		Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != fruitsModule {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, fruitsModule)
	}
}

func TestFromPackages_PreserveComments(t *testing.T) {
	got, err := FromPackages("./provider/testdata/fruits").
		Module("Fruits").
		PreserveComments(true).
		Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(got, "-- | Currency is how a fruit is paid for.\ndata Currency") {
		t.Errorf("expected doc comment on Currency:\n%s", got)
	}
}

func TestFromModule(t *testing.T) {
	got, err := FromModule(fruitsDeclarations()).Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got != fruitsModule {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, fruitsModule)
	}
}

func TestFromModule_Select(t *testing.T) {
	original := fruitsDeclarations()
	mod, err := FromModule(original).
		Module("Money").
		Types("Currency").
		Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if mod.Name != "Money" || len(mod.Declarations) != 1 {
		t.Errorf("unexpected module %s with %v", mod.Name, mod.Names())
	}
	if !reflect.DeepEqual(original, fruitsDeclarations()) {
		t.Errorf("Build modified the input module: %s %v", original.Name, original.Names())
	}

	mod.Add(ir.Positional(ir.Con("Extra")))
	mod.AddWarning(ir.Warning{Code: "X", Message: "x"})
	whole, err := FromModule(original).Module("Everything").Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	whole.Add(ir.Positional(ir.Con("Extra")))
	whole.AddWarning(ir.Warning{Code: "X", Message: "x"})
	if !reflect.DeepEqual(original, fruitsDeclarations()) {
		t.Errorf("changes to the built module leaked into the input: %v", original.Names())
	}

	_, err = FromModule(original).Types("Banana").Build(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no declaration Banana") {
		t.Errorf("expected unknown type error, got %v", err)
	}
}

func TestFromConfig_Input(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "fruits.json")

	var buf bytes.Buffer
	if err := ir.EncodeModule(&buf, fruitsDeclarations(), ir.FormatJSON); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Input: input, Module: "Fruits"}
	mem := sink.NewMemorySink()
	if _, err := FromConfig(cfg).GenerateTo(context.Background(), mem); err != nil {
		t.Fatalf("GenerateTo failed: %v", err)
	}
	if got := string(mem.Get("Fruits.purs")); got != fruitsModule {
		t.Errorf("content =\n%s\nwant:\n%s", got, fruitsModule)
	}
}

func TestFromConfig_Copies(t *testing.T) {
	cfg := &Config{Module: "Fruits", Packages: []string{"./fruits"}}
	FromConfig(cfg).Packages("./more").TypeMapping("time.Time", "DateTime")

	if len(cfg.Packages) != 1 || cfg.TypeMappings != nil {
		t.Errorf("FromConfig shares state with its argument: %+v", cfg)
	}
}

func TestGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *Generator
		wantErr string
	}{
		{
			name:    "missing module name",
			gen:     FromTypes(Fruit{}).Union(reflect.TypeFor[Color](), Red(0)),
			wantErr: "module name is required",
		},
		{
			name:    "nil value",
			gen:     FromTypes(nil).Module("Fruits"),
			wantErr: "nil value passed to FromTypes",
		},
		{
			name:    "unknown provider",
			gen:     FromTypes(Fruit{}).Provider("magic").Module("Fruits"),
			wantErr: `unknown provider: "magic"`,
		},
		{
			name:    "source without packages",
			gen:     FromTypes(Fruit{}).Provider(ProviderSource).Module("Fruits"),
			wantErr: "packages is required",
		},
		{
			name:    "unsupported input format",
			gen:     FromConfig(&Config{Module: "Fruits", Input: "fruits.xml"}),
			wantErr: "unknown declaration file extension",
		},
		{
			name:    "missing input",
			gen:     FromConfig(&Config{Module: "Fruits", Input: filepath.Join("testdata", "missing.json")}),
			wantErr: "failed to open",
		},
		{
			name:    "invalid module",
			gen:     FromModule(ir.NewModule("Fruits", ir.Union(ir.Con("Empty")))),
			wantErr: "union Empty has no alternatives",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen.Generate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fruitsGenerator().GenerateTo(ctx, sink.NewMemorySink())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerator_LogsWarnings(t *testing.T) {
	type Envelope struct {
		Payload any `json:"payload"`
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := FromTypes(Envelope{}).Module("Envelopes").Logger(logger).Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning for the interface field")
	}

	logs := buf.String()
	for _, want := range []string{"level=WARN", "code=INTERFACE_TYPE", "msg=\"wrote file\"", "path=Envelopes.purs"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %q:\n%s", want, logs)
		}
	}
}

func TestGenerator_GeneratorConfig(t *testing.T) {
	cfg := FromTypes().GeneratorConfig()
	if cfg.Imports != nil {
		t.Error("expected nil import table without overrides")
	}

	cfg = FromTypes().Import("Array", "Data.List", "List").GeneratorConfig()
	if got := cfg.Imports["Array"]; got.Library != "Data.List" || got.Name != "List" {
		t.Errorf("Imports[Array] = %+v", got)
	}
	if got := cfg.Imports["Maybe"]; got.Library != "Data.Maybe" {
		t.Errorf("defaults should be kept, got Maybe = %+v", got)
	}
}

func TestGenerator_RenderValidates(t *testing.T) {
	mod := ir.NewModule("Bad",
		ir.Union(ir.Con("Empty")),
		ir.Union(ir.Con("Empty"), ir.Con("A")),
	)

	text, err := FromModule(mod).Render(context.Background())
	if err == nil {
		t.Fatalf("expected validation error, got text %q", text)
	}
	for _, want := range []string{"invalid module Bad", "union Empty has no alternatives", "duplicate declaration: Empty"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err.Error(), want)
		}
	}
	if text != "" {
		t.Errorf("Render returned text with an error: %q", text)
	}
}
