package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://gridworld.ai/schemas/"

// Client message types and the schema each must satisfy.
var clientSchemas = map[string]string{
	TypeHello:    "hello.schema.json",
	TypeInput:    "input.schema.json",
	TypeSay:      "say.schema.json",
	TypeViewport: "viewport_msg.schema.json",
	TypeSave:     "save.schema.json",
	TypeEmote:    "emote.schema.json",
}

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

// Error is a protocol rejection carrying one of the E_* codes.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func loadSchemas() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		schemasErr = err
		return
	}
	for _, e := range entries {
		b, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			schemasErr = err
			return
		}
		if err := c.AddResource(schemaBase+e.Name(), bytes.NewReader(b)); err != nil {
			schemasErr = fmt.Errorf("schema %s: %w", e.Name(), err)
			return
		}
	}
	out := make(map[string]*jsonschema.Schema, len(entries))
	for _, e := range entries {
		s, err := c.Compile(schemaBase + e.Name())
		if err != nil {
			schemasErr = fmt.Errorf("schema %s: %w", e.Name(), err)
			return
		}
		out[e.Name()] = s
	}
	schemas = out
}

// Schema returns the compiled schema for a file name such as "frame.schema.json".
func Schema(name string) (*jsonschema.Schema, error) {
	schemasOnce.Do(loadSchemas)
	if schemasErr != nil {
		return nil, schemasErr
	}
	s, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema: %s", name)
	}
	return s, nil
}

// ValidateClient checks a raw client message against its schema and the
// protocol version. The returned base is usable even when err is non-nil.
func ValidateClient(raw []byte) (BaseMessage, error) {
	base, err := DecodeBase(raw)
	if err != nil {
		return base, &Error{Code: ErrProtoBadRequest, Message: "bad json"}
	}
	name, ok := clientSchemas[base.Type]
	if !ok {
		return base, &Error{Code: ErrProtoBadRequest, Message: "unknown type: " + base.Type}
	}
	if base.ProtocolVersion != Version {
		return base, &Error{Code: ErrProtoVersion, Message: "unsupported protocol_version: " + base.ProtocolVersion}
	}
	s, err := Schema(name)
	if err != nil {
		return base, &Error{Code: ErrInternal, Message: err.Error()}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return base, &Error{Code: ErrProtoBadRequest, Message: "bad json"}
	}
	if err := s.Validate(v); err != nil {
		return base, &Error{Code: ErrBadRequest, Message: err.Error()}
	}
	return base, nil
}
