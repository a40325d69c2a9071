// Command schemagen writes the JSON schemas of compass documents.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/macropower/compass/api/v1beta1/configs"
	"github.com/macropower/compass/pkg/metadata"
)

var (
	kind    = flag.String("kind", "config", "Document kind, one of: config, metadata")
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
)

func main() {
	flag.Parse()

	var s *jsonschema.Schema

	switch *kind {
	case "config":
		s = configs.Schema()
	case "metadata":
		s = metadata.Schema()
	default:
		log.Fatalf("unknown kind %q", *kind)
	}

	jsData, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
