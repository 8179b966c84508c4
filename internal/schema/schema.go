// Package schema holds the JSON Schemas job payloads are checked against
// before they are decoded.
package schema

const maxTextLength = 255

// JobPayloadSchema describes the body of create and update requests.
// Length minimums and enum membership are left to the job validator so its
// messages reach the logs unchanged.
func JobPayloadSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           jobProperties(),
		"required":             []string{"position", "company", "location", "status", "mode"},
	}
}

// ImportRecordSchema describes one record of a bulk import file.
func ImportRecordSchema() map[string]any {
	props := jobProperties()
	props["createdAt"] = map[string]any{"type": "string", "format": "date-time"}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"position", "company", "location", "status", "mode"},
	}
}

// ImportFileSchema describes a whole import file: an array of records.
func ImportFileSchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": ImportRecordSchema(),
	}
}

func jobProperties() map[string]any {
	return map[string]any{
		"position": textProp(),
		"company":  textProp(),
		"location": textProp(),
		"status":   map[string]any{"type": "string"},
		"mode":     map[string]any{"type": "string"},
	}
}

func textProp() map[string]any {
	return map[string]any{"type": "string", "maxLength": maxTextLength}
}
