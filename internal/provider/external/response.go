package external

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jmylchreest/tonal/internal/colour"
)

// ErrInvalidResponse is returned when a service reply does not match the response schema.
var ErrInvalidResponse = errors.New("invalid palette response")

// ResponseSchema is the JSON schema every service reply must satisfy.
const ResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["secondary", "neutral", "reasoning"],
  "properties": {
    "primary": {"$ref": "#/definitions/hex"},
    "secondary": {"$ref": "#/definitions/hex"},
    "neutral": {"$ref": "#/definitions/hex"},
    "semantic": {
      "type": "object",
      "properties": {
        "success": {"$ref": "#/definitions/hex"},
        "warning": {"$ref": "#/definitions/hex"},
        "error": {"$ref": "#/definitions/hex"},
        "info": {"$ref": "#/definitions/hex"}
      },
      "additionalProperties": false
    },
    "reasoning": {"type": "string", "minLength": 1}
  },
  "definitions": {
    "hex": {"type": "string", "pattern": "^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"}
  }
}`

var responseSchema = mustSchema(ResponseSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("external: invalid response schema: %v", err))
	}
	return schema
}

// Response is a validated service reply.
type Response struct {
	Primary   string            `json:"primary,omitempty"`
	Secondary string            `json:"secondary"`
	Neutral   string            `json:"neutral"`
	Semantic  map[string]string `json:"semantic,omitempty"`
	Reasoning string            `json:"reasoning"`
}

// ParseResponse extracts the JSON object from raw model output, validates it
// against ResponseSchema and decodes it.
func ParseResponse(raw []byte) (*Response, error) {
	body := extractObject(raw)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	}

	result, err := responseSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(problems, "; "))
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &resp, nil
}

// Semantics returns the parsed semantic colours keyed by role.
func (r *Response) Semantics() (map[colour.SemanticRole]colour.Colour, error) {
	out := make(map[colour.SemanticRole]colour.Colour, len(r.Semantic))
	for _, role := range colour.SemanticRoles {
		hex, ok := r.Semantic[string(role)]
		if !ok {
			continue
		}
		c, err := colour.ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("semantic %s: %w", role, err)
		}
		out[role] = c
	}
	return out, nil
}

// extractObject trims surrounding prose and code fences from model output.
func extractObject(raw []byte) []byte {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil
	}
	return raw[start : end+1]
}
