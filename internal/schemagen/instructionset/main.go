package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/strata/api/v1beta1/instructionsets"
	"github.com/macropower/strata/pkg/yaml"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(instructionsets.New(),
		"github.com/macropower/strata/api/v1beta1",
		"github.com/macropower/strata/api/v1beta1/instructionsets",
		"github.com/macropower/strata/pkg/document",
	)
	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
