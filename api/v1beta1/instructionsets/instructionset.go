// Package instructionsets provides the InstructionSet configuration type,
// which declares the instruction documents known to a strata registry.
package instructionsets

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/strata/api"
	"github.com/macropower/strata/api/v1beta1"
	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/instructionset/main.go -o instructionsets.v1beta1.json

var (
	//go:embed instructionset.yaml
	defaultInstructionSetYAML []byte

	//go:embed instructionsets.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for instruction sets.
	ValidKinds = []string{"InstructionSet"}

	// DefaultValidator validates instruction sets against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/instructionsets.v1beta1.json", schemaJSON)

	// ErrDuplicateDocument is returned when two documents share an id.
	ErrDuplicateDocument = errors.New("duplicate document id")

	// Compile-time interface checks.
	_ v1beta1.Object = (*InstructionSet)(nil)
)

// ResolverConfig holds resolution policy.
type ResolverConfig struct {
	// MaxTokens is the token budget for one composed context.
	// Zero disables budgeting.
	MaxTokens int `json:"maxTokens,omitempty" jsonschema:"title=Max Tokens"`
	// Precedence overrides the default tier order, highest precedence first.
	// When set, it must list every tier exactly once.
	Precedence []document.Tier `json:"precedence,omitempty" jsonschema:"title=Precedence,enum=personal,enum=repository,enum=path,enum=agent,enum=prompt,enum=organization"`
}

// EnsureDefaults initializes unset fields to their default values.
func (c *ResolverConfig) EnsureDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}

	if len(c.Precedence) == 0 {
		c.Precedence = document.DefaultPrecedence
	}
}

// DefaultMaxTokens is the default context budget.
const DefaultMaxTokens = 16000

// InstructionSet represents the instruction document configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type InstructionSet struct {
	// Resolver holds resolution policy.
	Resolver *ResolverConfig `json:"resolver,omitempty" jsonschema:"title=Resolver"`
	// Documents lists the instruction documents, in registration order.
	Documents        []*document.Document `json:"documents,omitempty" jsonschema:"title=Documents"`
	v1beta1.TypeMeta `json:",inline"`

	sourcePaths []string
}

// New creates a new [InstructionSet] with default values.
func New() *InstructionSet {
	s := &InstructionSet{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       "InstructionSet",
		},
	}
	s.EnsureDefaults()

	return s
}

// Default returns the embedded default instruction set source.
func Default() []byte {
	return defaultInstructionSetYAML
}

// SchemaJSON returns the embedded JSON schema.
func SchemaJSON() []byte {
	return schemaJSON
}

// EnsureDefaults initializes nil fields to their default values.
func (s *InstructionSet) EnsureDefaults() {
	if s.Resolver == nil {
		s.Resolver = &ResolverConfig{}
	}

	s.Resolver.EnsureDefaults()
}

// Validate validates the instruction set beyond what the schema can
// express: document invariants, unique ids, and precedence completeness.
func (s *InstructionSet) Validate() error {
	if s.Resolver != nil && len(s.Resolver.Precedence) > 0 {
		_, err := document.Ranks(s.Resolver.Precedence)
		if err != nil {
			return fmt.Errorf("resolver: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(s.Documents))

	for _, doc := range s.Documents {
		if _, ok := seen[doc.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateDocument, doc.ID)
		}

		seen[doc.ID] = struct{}{}

		err := doc.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ResolveSources reads each document's source file (relative to baseDir)
// into its body, clearing the source reference so the document can be
// registered. Bodies declared inline are left untouched. The resolved
// paths are recorded and available from [InstructionSet.SourcePaths].
func (s *InstructionSet) ResolveSources(baseDir string) error {
	for _, doc := range s.Documents {
		if doc.Source == "" {
			continue
		}

		path := doc.Source
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		data, err := api.ReadFile(path)
		if err != nil {
			return fmt.Errorf("document %s: source: %w", doc.ID, err)
		}

		doc.Body = string(data)
		doc.Source = ""

		s.sourcePaths = append(s.sourcePaths, path)
	}

	return nil
}

// SourcePaths returns the paths of all source files read by
// [InstructionSet.ResolveSources], used for change watching.
func (s *InstructionSet) SourcePaths() []string {
	return s.sourcePaths
}

func (s InstructionSet) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the instruction set to YAML.
func (s InstructionSet) MarshalYAML() ([]byte, error) {
	type alias InstructionSet

	b, err := api.MarshalYAML(alias(s))
	if err != nil {
		return nil, fmt.Errorf("marshal instruction set: %w", err)
	}

	return b, nil
}
