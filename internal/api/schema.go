package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Request body schemas. Unknown properties are rejected.
const (
	createTodoSchemaURL = "https://todoapi.local/schemas/create-todo.json"
	updateTodoSchemaURL = "https://todoapi.local/schemas/update-todo.json"

	// A null title is treated like a missing one on create.
	createTodoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": ["string", "null"]}
  },
  "additionalProperties": false
}`

	updateTodoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "completed": {"type": "boolean"}
  },
  "additionalProperties": false
}`
)

// BodyError describes a request body that is not valid JSON or does not
// match its schema.
type BodyError struct {
	Path   string
	Reason string
}

func (e *BodyError) Error() string {
	if e.Path == "" {
		return "invalid request body: " + e.Reason
	}
	return fmt.Sprintf("invalid request body at %s: %s", e.Path, e.Reason)
}

// bodySchemas holds the compiled request schemas.
type bodySchemas struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

// compileSchemas compiles the embedded request schemas.
func compileSchemas() (*bodySchemas, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	for url, src := range map[string]string{
		createTodoSchemaURL: createTodoSchema,
		updateTodoSchemaURL: updateTodoSchema,
	} {
		if err := compiler.AddResource(url, strings.NewReader(src)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", url, err)
		}
	}

	create, err := compiler.Compile(createTodoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile create schema: %w", err)
	}
	update, err := compiler.Compile(updateTodoSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile update schema: %w", err)
	}
	return &bodySchemas{create: create, update: update}, nil
}

// decodeBody validates raw against schema and decodes it into dst.
// An empty or whitespace-only body decodes as {}.
func decodeBody(raw []byte, schema *jsonschema.Schema, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &BodyError{Reason: err.Error()}
	}
	if dec.More() {
		return &BodyError{Reason: "unexpected data after top-level value"}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaBodyError(err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &BodyError{Reason: err.Error()}
	}
	return nil
}

// schemaBodyError reports the first leaf cause of a schema validation failure.
func schemaBodyError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &BodyError{Reason: err.Error()}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &BodyError{Path: ve.InstanceLocation, Reason: ve.Message}
}
