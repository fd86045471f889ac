package slidemodel

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed record.schema.json
var recordSchemaJSON []byte

var (
	recordSchemaOnce sync.Once
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
)

func loadRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaJSON))
	})
	return recordSchema, recordSchemaErr
}

// RecordSchema returns the JSON Schema every Document conforms to.
func RecordSchema() []byte {
	out := make([]byte, len(recordSchemaJSON))
	copy(out, recordSchemaJSON)
	return out
}

// ErrInvalidRecord is wrapped by every schema violation DecodeDocument
// reports.
var ErrInvalidRecord = errors.New("invalid document record")

func validateRecord(data []byte) error {
	schema, err := loadRecordSchema()
	if err != nil {
		return fmt.Errorf("failed to load record schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}
