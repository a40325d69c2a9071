// Package config loads versioned compass files.
//
// A [Loader] validates YAML data against a JSON schema, decodes it into an
// [v1beta1.Object] and reports failures annotated against the source.
package config
