package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

// Validator checks JSON documents against one compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

var (
	// JobPayload validates create and update bodies.
	JobPayload = MustCompile("job-payload.json", JobPayloadSchema())
	// ImportFile validates decoded import files.
	ImportFile = MustCompile("import-file.json", ImportFileSchema())
)

// Compile compiles schemaMap under the given resource name.
func Compile(name string, schemaMap map[string]any) (*Validator, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(name string, schemaMap map[string]any) *Validator {
	v, err := Compile(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks raw JSON. Failures wrap common.ErrValidation.
func (v *Validator) Validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return common.NewAppError("SCHEMA_ERROR", "body is not valid JSON", errors.Join(common.ErrValidation, err))
	}
	return v.ValidateValue(doc)
}

// ValidateValue checks an already decoded document (maps, slices, strings, float64...).
func (v *Validator) ValidateValue(doc any) error {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		return common.NewAppError("SCHEMA_ERROR", strings.Join(leafMessages(ve), "; "), common.ErrValidation)
	}
	return common.NewAppError("SCHEMA_ERROR", "document does not match schema", errors.Join(common.ErrValidation, err))
}

func leafMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, leafMessages(c)...)
	}
	return out
}
