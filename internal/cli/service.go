package cli

import (
	"fmt"
	"log/slog"

	"github.com/macropower/strata/api/v1beta1/instructionsets"
	"github.com/macropower/strata/pkg/config"
	"github.com/macropower/strata/pkg/registry"
	"github.com/macropower/strata/pkg/resolve"
)

// engine bundles a loaded instruction set with the registry and service
// built from it.
type engine struct {
	set        *instructionsets.InstructionSet
	reg        *registry.Registry
	svc        *resolve.Service
	configPath string
}

// loadSet loads the instruction set governing targetPath. The --config flag
// wins; otherwise the directory tree above targetPath is searched, then the
// user-level config. Without any config file, the embedded defaults apply.
func loadSet(ra *RootArgs, targetPath string) (*instructionsets.InstructionSet, string, error) {
	cfgPath := ra.ConfigPath

	if cfgPath == "" {
		found, err := config.Find(targetPath)
		if err != nil {
			return nil, "", fmt.Errorf("locate instruction set: %w", err)
		}

		cfgPath = found
	}

	if cfgPath == "" {
		slog.Debug("no instruction set found, using embedded defaults")

		set, err := config.LoadBytes(instructionsets.Default(), ".")
		if err != nil {
			return nil, "", fmt.Errorf("load default instruction set: %w", err)
		}

		return set, "", nil
	}

	set, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("invalid instruction set %q: %w", cfgPath, err)
	}

	return set, cfgPath, nil
}

// buildEngine loads configuration and constructs the resolution service.
// A non-negative maxTokens overrides the configured budget for this
// invocation.
func buildEngine(ra *RootArgs, targetPath string, maxTokens int) (*engine, error) {
	set, cfgPath, err := loadSet(ra, targetPath)
	if err != nil {
		return nil, err
	}

	var regOpts []registry.Opt
	if len(set.Resolver.Precedence) > 0 {
		regOpts = append(regOpts, registry.WithPrecedence(set.Resolver.Precedence))
	}

	reg, err := registry.New(regOpts...)
	if err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}

	err = reg.Add(set.Documents...)
	if err != nil {
		return nil, fmt.Errorf("register documents: %w", err)
	}

	budget := set.Resolver.MaxTokens
	if maxTokens >= 0 {
		budget = maxTokens
	}

	return &engine{
		set:        set,
		reg:        reg,
		svc:        resolve.NewService(reg, resolve.WithMaxTokens(budget)),
		configPath: cfgPath,
	}, nil
}

// reload re-reads the engine's config file and swaps the registry contents.
// The previous snapshot stays published if anything fails.
func (e *engine) reload() error {
	if e.configPath == "" {
		return nil
	}

	set, err := config.Load(e.configPath)
	if err != nil {
		return fmt.Errorf("reload instruction set %q: %w", e.configPath, err)
	}

	err = e.reg.Reload(set.Documents)
	if err != nil {
		return fmt.Errorf("rebuild registry: %w", err)
	}

	e.set = set

	return nil
}

// watchPaths returns the files whose changes should trigger a reload.
func (e *engine) watchPaths() []string {
	if e.configPath == "" {
		return nil
	}

	paths := []string{e.configPath}
	paths = append(paths, e.set.SourcePaths()...)

	return paths
}
