// Package schema validates vault process responses against the wire contract.
//
// Validation is opt-in (the client's strict-decoding mode). A response that
// fails its schema means the vault executable broke its own contract, which
// the client surfaces as a protocol violation rather than a domain error.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Success-output schemas keyed by subcommand. Subcommands whose success
// output is empty (store, remove, rotate, import, init) have no entry.
const getResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "value", "version"],
  "properties": {
    "name": {"type": "string"},
    "value": {"type": "string"},
    "version": {"type": "integer", "minimum": 1},
    "created": {"type": "string"},
    "modified": {"type": "string"}
  }
}`

const listResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["secrets"],
  "properties": {
    "secrets": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "version"],
        "properties": {
          "name": {"type": "string"},
          "version": {"type": "integer", "minimum": 1},
          "created": {"type": "string"},
          "modified": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func compile() {
	sources := map[string]string{
		"get":  getResponseSchema,
		"list": listResponseSchema,
	}
	compiled = make(map[string]*gojsonschema.Schema, len(sources))
	for subcommand, source := range sources {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			compileErr = fmt.Errorf("failed to compile %s response schema: %w", subcommand, err)
			return
		}
		compiled[subcommand] = s
	}
}

// Validate checks a success payload against the schema for its subcommand.
// Subcommands without a registered schema pass unconditionally, as does an
// empty document (empty success output is always legal on the wire).
func Validate(subcommand string, document []byte) error {
	if len(document) == 0 || len(strings.TrimSpace(string(document))) == 0 {
		return nil
	}

	compileOnce.Do(compile)
	if compileErr != nil {
		return compileErr
	}
	s, ok := compiled[subcommand]
	if !ok {
		return nil
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("%s response violates wire contract:\n  - %s",
			subcommand, strings.Join(errorMessages, "\n  - "))
	}
	return nil
}
