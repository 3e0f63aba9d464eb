package relay

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// writeRequestSchema guards the controller-facing write contract at the HTTP
// boundary, so malformed bodies are rejected before they reach the store.
const writeRequestSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["action"],
	"properties": {
		"action": {"enum": ["present", "clear"]},
		"payload": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"title": {"type": "string"},
				"author": {"type": "string"},
				"description": {"type": "string"},
				"thumbnail": {"type": "string"},
				"fileUrl": {"type": "string"},
				"fileType": {"enum": ["image", "pdf", "document", ""]},
				"fileData": {"type": "string"},
				"localSource": {"type": "boolean"}
			}
		}
	},
	"if": {"properties": {"action": {"const": "present"}}},
	"then": {"required": ["action", "payload"]}
}`

var compiledWriteSchema = mustCompileWriteSchema()

func mustCompileWriteSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(writeRequestSchema))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("write-request.json", doc); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("write-request.json")
	if err != nil {
		panic(err)
	}
	return schema
}

// ValidateWriteBody checks a decoded JSON body against the write-request
// schema. The value must come from encoding/json unmarshalled into any.
func ValidateWriteBody(body any) error {
	return compiledWriteSchema.Validate(body)
}
