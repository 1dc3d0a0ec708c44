package storage_test

import (
	"testing"

	"github.com/p-n-ai/cbt-study/internal/storage"
)

func TestSchema_Validate(t *testing.T) {
	schema := storage.MustCompileSchema(`{
		"type": "object",
		"required": ["questions"],
		"properties": {"questions": {"type": "array"}}
	}`)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"questions":[]}`, false},
		{"missing field", `{}`, true},
		{"wrong type", `{"questions":"nope"}`, true},
		{"not json", `{oops`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%s) error = %v, wantErr %v", tt.doc, err, tt.wantErr)
			}
		})
	}
}

func TestMustCompileSchema_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompileSchema() should panic for an invalid schema")
		}
	}()
	storage.MustCompileSchema(`{"type": 12}`)
}
