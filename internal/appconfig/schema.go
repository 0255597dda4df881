// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the shape of config.json. Validation runs before
// unmarshalling so a typo'd host type or missing URL fails with a message
// naming the offending field instead of a zero value surfacing later.
const configSchema = `{
  "type": "object",
  "required": ["hosts", "embeddingHost", "embeddingModel", "generationHost"],
  "properties": {
    "hosts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "url", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ["ollama", "openai"]},
          "apiKeyEnv": {"type": "string"}
        }
      }
    },
    "embeddingHost": {"type": "string", "minLength": 1},
    "embeddingModel": {"type": "string", "minLength": 1},
    "generationHost": {"type": "string", "minLength": 1},
    "generationModel": {"type": "string"},
    "chunkMaxChars": {"type": "integer", "minimum": 1},
    "topK": {"type": "integer", "minimum": 1},
    "timeout": {"type": "integer", "minimum": 1},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"},
    "parameters": {
      "type": "object",
      "properties": {
        "temperature": {"type": "number", "minimum": 0},
        "top_p": {"type": "number", "minimum": 0, "maximum": 1},
        "repeat_penalty": {"type": "number", "minimum": 0},
        "num_predict": {"type": "integer", "minimum": 1}
      }
    }
  }
}`

func validateSchema(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}
