// Package configs provides the Configuration type for compass.
package configs

//go:generate go run ../../../internal/schemagen -kind config -o configs.v1beta1.json

import (
	"errors"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/compass/api"
	"github.com/macropower/compass/api/v1beta1"
	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/expr"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
	"github.com/macropower/compass/pkg/yaml"
)

// SchemaURL identifies the configuration schema.
const SchemaURL = "https://jacobcolvin.com/compass/config.v1beta1.json"

// KeyPrefix is prepended to every custom check key.
const KeyPrefix = "custom_"

// Kind is the kind of a compass configuration file.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ErrInvalidCheck indicates a custom check that cannot be evaluated.
	ErrInvalidCheck = errors.New("invalid check")

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{Kind}

	// DefaultValidator validates configuration against [Schema].
	DefaultValidator = sync.OnceValue(func() *yaml.Validator {
		v, err := yaml.NewValidatorFromSchema(SchemaURL, Schema())
		if err != nil {
			panic(err)
		}

		return v
	})

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the compass configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	v1beta1.TypeMeta `json:",inline"`
	// Standard is the standard text evaluated when none is given.
	Standard string `json:"standard,omitempty" jsonschema:"title=Standard"`
	// Output is the default output format.
	Output string `json:"output,omitempty" jsonschema:"title=Output,enum=table,enum=yaml,enum=json"`
	// Checks are appended to the suite of their standard.
	Checks []*Check `json:"checks,omitempty" jsonschema:"title=Checks"`
}

// Check is a custom check scored by a CEL expression.
type Check struct {
	Threshold rule.Threshold `json:"threshold" jsonschema:"title=Threshold"`
	// Standard selects the suite the check joins, resolved like the
	// --standard flag.
	Standard string `json:"standard" jsonschema:"title=Standard"`
	// Key is the result key, without the custom_ prefix.
	Key     string `json:"key"               jsonschema:"title=Key,pattern=^[a-z0-9_]+$"`
	Details string `json:"details,omitempty" jsonschema:"title=Details"`
	// Score is a CEL expression producing the check score.
	Score  string `json:"score"  jsonschema:"title=Score"`
	Weight int    `json:"weight" jsonschema:"title=Weight,minimum=1"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes empty fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Standard == "" {
		c.Standard = standard.Default
	}
	if c.Output == "" {
		c.Output = "table"
	}
}

// Validate checks requirements that the schema cannot express.
func (c *Config) Validate() error {
	err := c.TypeMeta.Validate(ValidKinds...)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	seen := map[string]bool{}
	for i, check := range c.Checks {
		err := check.Validate()
		if err != nil {
			return fmt.Errorf("checks[%d]: %w", i, err)
		}
		if seen[check.Key] {
			return fmt.Errorf("checks[%d]: %w: duplicate key %q", i, ErrInvalidCheck, check.Key)
		}

		seen[check.Key] = true
	}

	return nil
}

// Validate checks that the fields of c are usable.
func (c *Check) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: check is null", ErrInvalidCheck)
	}
	if c.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidCheck)
	}
	if c.Score == "" {
		return fmt.Errorf("%w %q: score is required", ErrInvalidCheck, c.Key)
	}
	if c.Weight < 1 {
		return fmt.Errorf("%w %q: weight must be positive", ErrInvalidCheck, c.Key)
	}

	err := c.Threshold.Validate()
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidCheck, c.Key, err)
	}

	return nil
}

// Compile builds a [rule.Check] from c, and resolves its standard.
func (c *Check) Compile(env *expr.Environment) (standard.Standard, rule.Check, error) {
	scorer, err := env.NewScorer(c.Score)
	if err != nil {
		return "", rule.Check{}, fmt.Errorf("%w %q: %w", ErrInvalidCheck, c.Key, err)
	}

	return standard.Resolve(c.Standard), rule.Check{
		Key:       KeyPrefix + c.Key,
		Weight:    c.Weight,
		Threshold: c.Threshold,
		Details:   c.Details,
		Scorer:    scorer,
	}, nil
}

// EngineOptions compiles the custom checks into [engine.Option]s, keeping
// their order within each standard.
func (c *Config) EngineOptions(env *expr.Environment) ([]engine.Option, error) {
	opts := make([]engine.Option, 0, len(c.Checks))
	for i, check := range c.Checks {
		std, rc, err := check.Compile(env)
		if err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}

		opts = append(opts, engine.WithCustomChecks(std, rc))
	}

	return opts, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// Schema reflects the JSON schema of [Config].
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	s := r.Reflect(&Config{})
	s.ID = SchemaURL
	s.Title = "Configuration"
	s.Description = "Configuration for compass."

	return s
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the user configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}
