package config

import (
	"fmt"
	"path/filepath"

	"github.com/macropower/strata/api"
	"github.com/macropower/strata/api/v1beta1/instructionsets"
)

// DefaultFileNames are the file names searched for when locating a
// repository-local instruction set, in priority order.
var DefaultFileNames = []string{
	".strata.yaml",
	"strata.yaml",
}

// DefaultPath returns the path of the user-level instruction set.
func DefaultPath() string {
	return api.GetConfigPath("instructionset.yaml")
}

// Find locates the instruction set governing targetPath. It walks up the
// directory tree looking for [DefaultFileNames], then falls back to the
// user-level config. Returns an empty string when neither exists.
func Find(targetPath string) (string, error) {
	found, err := api.FindConfigFile(targetPath, DefaultFileNames)
	if err != nil {
		return "", fmt.Errorf("find config file: %w", err)
	}

	if found != "" {
		return found, nil
	}

	userPath := DefaultPath()

	_, err = api.ReadFile(userPath)
	if err != nil {
		return "", nil //nolint:nilerr // Missing user config is not an error.
	}

	return userPath, nil
}

// Load reads, validates, and loads the instruction set at path. Document
// source files are resolved relative to the config file's directory.
func Load(path string) (*instructionsets.InstructionSet, error) {
	loader, err := NewLoaderFromFile(path, instructionsets.New, instructionsets.DefaultValidator)
	if err != nil {
		return nil, err
	}

	return load(loader, filepath.Dir(path))
}

// LoadBytes validates and loads an instruction set from data. Document
// source files are resolved relative to baseDir.
func LoadBytes(data []byte, baseDir string) (*instructionsets.InstructionSet, error) {
	loader := NewLoaderFromBytes(data, instructionsets.New, instructionsets.DefaultValidator)

	return load(loader, baseDir)
}

func load(loader *Loader[*instructionsets.InstructionSet], baseDir string) (*instructionsets.InstructionSet, error) {
	err := loader.Validate()
	if err != nil {
		return nil, err
	}

	set, err := loader.Load()
	if err != nil {
		return nil, err
	}

	// Requirements the schema cannot express.
	err = set.Validate()
	if err != nil {
		return nil, err
	}

	err = set.ResolveSources(baseDir)
	if err != nil {
		return nil, err
	}

	return set, nil
}

// WriteDefault writes the embedded default instruction set to path, unless
// a file already exists there.
func WriteDefault(path string) error {
	err := api.WriteIfNotExists(path, instructionsets.Default())
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}
