// Package mcp serves the compass engine as Model Context Protocol tools.
package mcp

import "github.com/google/jsonschema-go/jsonschema"

const (
	name         = "compass"
	instructions = `MCP Server 'compass' evaluates the column-level metadata profile of a dataset against a financial compliance standard.

When to use these tools:
- Checking whether a dataset profile meets GDPR, Visa CEDP, AML/FATF, PCI DSS or Basel expectations
- Re-evaluating a profile after changing columns, null rates or freshness
- Finding out which named checks a standard runs

Workflow:
1. Use 'list_standards' to see the standards, the keywords that select them and their check keys
2. Use 'evaluate_compliance' with the metadata object and the standard text
3. READ the failed checks and their details before suggesting changes

The engine never computes an aggregate score. Report individual check results.
`
)

func resultSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"details": {Type: "string", Description: "Human-readable explanation of the score."},
			"score":   {Type: "number", Description: "Check score, usually between 0 and 100."},
			"weight":  {Type: "integer", Description: "Relative importance of the check."},
			"passed":  {Type: "boolean", Description: "Whether the score met the check threshold."},
		},
		Required: []string{"details", "score", "weight", "passed"},
	}
}

func evaluateInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"metadata": {
				Type:        "object",
				Description: "Dataset metadata with 'columns' (column name to profile), 'total_rows' and 'total_columns'.",
			},
			"standard": {
				Type:        "string",
				Description: "Standard text, matched by keyword (GDPR, VISA, CEDP, AML, FATF, PCI, BASEL). Defaults to the general suite.",
			},
		},
		Required: []string{"metadata"},
	}
}

func evaluateOutputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"standard": {Type: "string", Description: "The resolved standard."},
			"summary":  {Type: "string", Description: "One-line summary of the evaluation."},
			"results": {
				Type:                 "object",
				Description:          "Check key to result.",
				AdditionalProperties: resultSchema(),
			},
			"failed": {
				Type:        "array",
				Description: "Keys of the failed checks, sorted.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"standard", "summary", "results"},
	}
}

func listStandardsOutputSchema() *jsonschema.Schema {
	str := &jsonschema.Schema{Type: "string"}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"standards": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":     {Type: "string", Description: "Standard identifier."},
						"keywords": {Type: "array", Items: str, Description: "Keywords selecting the standard."},
						"checks":   {Type: "array", Items: str, Description: "Check keys run for the standard."},
					},
					Required: []string{"name", "checks"},
				},
			},
		},
		Required: []string{"standards"},
	}
}
