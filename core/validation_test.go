package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateVector(t *testing.T) {
	tests := []struct {
		name      string
		vector    []float32
		dimension int
		wantErr   error
	}{
		{
			name:      "valid vector",
			vector:    []float32{0.1, -0.2, 0.3},
			dimension: 3,
			wantErr:   nil,
		},
		{
			name:      "zero vector is finite",
			vector:    []float32{0, 0, 0},
			dimension: 3,
			wantErr:   nil,
		},
		{
			name:      "empty vector",
			vector:    nil,
			dimension: 3,
			wantErr:   ErrEmptyVector,
		},
		{
			name:      "too short",
			vector:    []float32{0.1, 0.2},
			dimension: 3,
			wantErr:   ErrDimensionMismatch,
		},
		{
			name:      "too long",
			vector:    []float32{0.1, 0.2, 0.3, 0.4},
			dimension: 3,
			wantErr:   ErrDimensionMismatch,
		},
		{
			name:      "contains NaN",
			vector:    []float32{0.1, float32(math.NaN()), 0.3},
			dimension: 3,
			wantErr:   ErrNonFiniteVector,
		},
		{
			name:      "contains +Inf",
			vector:    []float32{float32(math.Inf(1)), 0.2, 0.3},
			dimension: 3,
			wantErr:   ErrNonFiniteVector,
		},
		{
			name:      "contains -Inf",
			vector:    []float32{0.1, 0.2, float32(math.Inf(-1))},
			dimension: 3,
			wantErr:   ErrNonFiniteVector,
		},
		{
			name:      "dimension checked before finiteness",
			vector:    []float32{float32(math.NaN())},
			dimension: 3,
			wantErr:   ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVector(tt.vector, tt.dimension)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateVector() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateVector() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func validDocument() *IndexDocument {
	return &IndexDocument{
		ID:          "support_chunk_0",
		Content:     "How to reset your password",
		Text:        "How to reset your password",
		PageContent: "How to reset your password",
		Keywords:    []string{"reset", "password"},
		VectorField: []float32{0.1, 0.2},
	}
}

func TestValidateIndexDocument(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *IndexDocument) *IndexDocument
		wantErr error
	}{
		{
			name:    "valid document",
			mutate:  func(d *IndexDocument) *IndexDocument { return d },
			wantErr: nil,
		},
		{
			name:    "nil document",
			mutate:  func(d *IndexDocument) *IndexDocument { return nil },
			wantErr: ErrInvalidIndexDocument,
		},
		{
			name: "empty id",
			mutate: func(d *IndexDocument) *IndexDocument {
				d.ID = ""
				return d
			},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "empty content",
			mutate: func(d *IndexDocument) *IndexDocument {
				d.Content, d.Text, d.PageContent = "", "", ""
				return d
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "text alias differs",
			mutate: func(d *IndexDocument) *IndexDocument {
				d.Text = "something else"
				return d
			},
			wantErr: ErrAliasMismatch,
		},
		{
			name: "page_content alias differs",
			mutate: func(d *IndexDocument) *IndexDocument {
				d.PageContent = "something else"
				return d
			},
			wantErr: ErrAliasMismatch,
		},
		{
			name: "missing vector",
			mutate: func(d *IndexDocument) *IndexDocument {
				d.VectorField = nil
				return d
			},
			wantErr: ErrEmptyVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIndexDocument(tt.mutate(validDocument()))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIndexDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIndexDocument() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidIndexDocument) {
				t.Errorf("ValidateIndexDocument() error = %v, want wrapped %v", err, ErrInvalidIndexDocument)
			}
		})
	}
}
