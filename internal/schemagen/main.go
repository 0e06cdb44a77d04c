// Command schemagen generates the JSON schema for the configuration file.
// It is invoked via go:generate from pkg/config.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/logsieve/logsieve/pkg/config"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	r := new(jsonschema.Reflector)

	err := r.AddGoComments("github.com/logsieve/logsieve", "../..")
	if err != nil {
		log.Fatalf("add go comments: %v", err)
	}

	s := r.Reflect(&config.Config{})
	s.ID = "https://logsieve.dev/config.v1beta1.json"

	jsData, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
