package slot

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema returns a JSON Schema representation of the fixed type of the
// slot at index.
func (s *Store) Schema(index int) (interface{}, error) {
	s.mu.RLock()
	if index < 0 || index >= len(s.slots) {
		held := len(s.slots)
		s.mu.RUnlock()
		return nil, fmt.Errorf("%w: index %d, store holds %d slots", ErrUnknownSlot, index, held)
	}
	t := s.slots[index].typ
	s.mu.RUnlock()

	return TypeToSchema(t), nil
}

// Schemas returns the JSON Schema of every slot's fixed type, in slot
// order.
func (s *Store) Schemas() []interface{} {
	s.mu.RLock()
	types := make([]reflect.Type, len(s.slots))
	for i, e := range s.slots {
		types[i] = e.typ
	}
	s.mu.RUnlock()

	out := make([]interface{}, len(types))
	for i, t := range types {
		out[i] = TypeToSchema(t)
	}
	return out
}

// TypeToSchema converts a reflect.Type to a JSON schema.
func TypeToSchema(t reflect.Type) interface{} {
	instance := reflect.New(t).Interface()
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,  // Avoid using $ref, which can make schema validation more complex
		AllowAdditionalProperties: false, // Strictly match schema properties
	}

	schema := reflector.Reflect(instance)

	// Marshal and unmarshal to convert to a map[string]interface{}
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}

	var schemaMap map[string]interface{}
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		}
	}

	if _, exists := schemaMap["type"]; !exists {
		schemaMap["type"] = "object"
	}
	if _, exists := schemaMap["properties"]; !exists {
		schemaMap["properties"] = map[string]interface{}{}
	}

	return schemaMap
}
