package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
	"github.com/joseph-ayodele/jobs-tracker/internal/schema"
)

// Record is one job in an import file. CreatedAt backdates the job when set.
type Record struct {
	Position  string     `json:"position"`
	Company   string     `json:"company"`
	Location  string     `json:"location"`
	Status    string     `json:"status"`
	Mode      string     `json:"mode"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Input returns the record as a job payload.
func (r Record) Input() entity.JobInput {
	return entity.JobInput{
		Position: r.Position,
		Company:  r.Company,
		Location: r.Location,
		Status:   r.Status,
		Mode:     r.Mode,
	}
}

// LoadFile reads a JSON or YAML array of records and checks it against the import schema.
func LoadFile(path string) ([]Record, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !AllowedExt(ext) {
		return nil, fmt.Errorf("%s: unsupported extension %q", path, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode parses data in the format named by ext ("json", "yaml" or "yml").
func Decode(data []byte, ext string) ([]Record, error) {
	var doc any
	switch constants.NormalizeExt(ext) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		doc = normalizeYAML(doc)
	}
	if doc == nil {
		return []Record{}, nil
	}

	if err := schema.ImportFile.ValidateValue(doc); err != nil {
		return nil, err
	}

	// doc is plain JSON data at this point; round-trip it into typed records.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// normalizeYAML turns yaml.v3 values into their JSON equivalents so they can be
// validated: timestamps become RFC 3339 strings and integers become float64.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case int:
		return float64(t)
	}
	return v
}
