// Package schema validates persisted review artifacts against the embedded
// JSON Schema. This is the durable on-disk contract check: token renames or
// shape changes that fail here require a schema_version bump.
package schema

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	_ "embed"
)

//go:embed schema.json
var artifactSchema []byte

var compiled *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("artifact.json", bytes.NewReader(artifactSchema)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("artifact.json")
	if err != nil {
		panic(err)
	}
	compiled = schema
}

// ValidateArtifact checks raw artifact JSON against the package schema.
func ValidateArtifact(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return eris.Wrap(err, "schema: parse artifact")
	}
	if err := compiled.Validate(value); err != nil {
		return eris.Wrap(err, "schema: artifact does not match contract")
	}
	return nil
}
