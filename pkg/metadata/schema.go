package metadata

import (
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/macropower/compass/pkg/yaml"
)

// SchemaURL identifies the dataset schema.
const SchemaURL = "https://jacobcolvin.com/compass/dataset.json"

var loadValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	return yaml.NewValidatorFromSchema(SchemaURL, Schema())
})

// Schema reflects the JSON schema of [Dataset].
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}

	s := r.Reflect(&Dataset{})
	s.ID = SchemaURL
	s.Title = "Dataset"
	s.Description = "Column-level profile of a dataset, evaluated by compass."

	return s
}

// Load decodes a JSON or YAML document into a [Dataset].
//
// The document is validated against [Schema] and then against the input
// contract. Every validation failure wraps [ErrInvalidMetadata]; schema
// failures are a [*yaml.Error] annotated against data.
func Load(data []byte) (*Dataset, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", yaml.Annotate(err, yaml.WithSource(data)))
	}

	validator, err := loadValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	err = validator.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMetadata, yaml.Annotate(err, yaml.WithSource(data)))
	}

	d := &Dataset{}

	err = yaml.Unmarshal(data, d)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", yaml.Annotate(err, yaml.WithSource(data)))
	}

	err = d.Validate()
	if err != nil {
		return nil, err
	}

	return d, nil
}
