package yaml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator produces a JSON schema for a configuration object,
// pulling descriptions from Go doc comments in the given packages.
type SchemaGenerator struct {
	obj      any
	packages []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for obj. The packages
// are module-qualified import paths whose doc comments feed the schema
// descriptions; they must be packages of the current module.
func NewSchemaGenerator(obj any, packages ...string) *SchemaGenerator {
	return &SchemaGenerator{obj: obj, packages: packages}
}

// Generate reflects the object into an indented JSON schema document.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{}

	for _, pkg := range g.packages {
		dir, err := packageDir(pkg)
		if err != nil {
			return nil, err
		}

		err = r.AddGoComments(pkg, dir)
		if err != nil {
			return nil, fmt.Errorf("add comments for %s: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.obj)

	jsData, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return jsData, nil
}

// packageDir maps a module-qualified package path to a directory,
// assuming the generator runs from within the module tree.
func packageDir(pkg string) (string, error) {
	root, err := moduleRoot()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("read go.mod: %w", err)
	}

	modPath := modulePath(data)
	if modPath == "" || !strings.HasPrefix(pkg, modPath) {
		return "", fmt.Errorf("package %s is not in module %s", pkg, modPath)
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(pkg, modPath), "/")

	return filepath.Join(root, rel), nil
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		_, err := os.Stat(filepath.Join(dir, "go.mod"))
		if err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}

		dir = parent
	}
}

func modulePath(gomod []byte) string {
	for line := range strings.Lines(string(gomod)) {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}

	return ""
}
