package datastore

import (
	"encoding/json"
	"fmt"
)

// decodeData re-marshals the generic JSON object carried in an Envelope's
// Data field and unmarshals it into out, giving each handler a typed
// request struct instead of hand-rolled map assertions.
func decodeData(data map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("datastore: re-encoding request data: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("datastore: decoding request data: %w", err)
	}
	return nil
}

// toResponseFields re-marshals a typed row (or slice of rows) into the
// map shape a response needs.
func toResponseFields(key string, v interface{}) response {
	raw, err := json.Marshal(v)
	if err != nil {
		return response{key: nil}
	}
	var decoded interface{}
	_ = json.Unmarshal(raw, &decoded)
	return response{key: decoded}
}
