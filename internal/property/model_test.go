package property

import (
	"testing"

	"github.com/imobly/imobly/internal/apperr"
)

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"available", true},
		{"reserved", true},
		{"sold", true},
		{"", false},
		{"pending", false},
		{"AVAILABLE", false},
	}

	for _, tt := range tests {
		if got := ValidStatus(tt.status); got != tt.want {
			t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestEncodeDecodeFeatures(t *testing.T) {
	tests := []struct {
		name     string
		features []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"plain", []string{"Pool", "Sauna"}},
		{"embedded comma", []string{"Garage, covered", "Vista, mar"}},
		{"embedded quotes and brackets", []string{`sala "ampla"`, "[2] vagas"}},
		{"duplicates preserved", []string{"Pool", "Pool"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeFeatures(tt.features)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}

			got, err := decodeFeatures(raw)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got == nil {
				t.Fatal("decoded features must never be nil")
			}
			if len(got) != len(tt.features) {
				t.Fatalf("got %d features, want %d", len(got), len(tt.features))
			}
			for i := range tt.features {
				if got[i] != tt.features[i] {
					t.Errorf("features[%d] = %q, want %q", i, got[i], tt.features[i])
				}
			}
		})
	}
}

func TestDecodeFeaturesEmptyColumn(t *testing.T) {
	got, err := decodeFeatures("")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestValidateInputMessages(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		want  string
	}{
		{
			"missing title",
			&Input{Location: "Centro", Category: "sale", Price: 1},
			"title is required",
		},
		{
			"zero price",
			&Input{Title: "Casa", Location: "Centro", Category: "sale"},
			"price is required",
		},
		{
			"bad status",
			&Input{Title: "Casa", Location: "Centro", Category: "sale", Price: 1, Status: "gone"},
			"status must be one of: available, reserved, sold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !apperr.IsValidation(err) {
				t.Fatalf("kind = %v, want validation", apperr.KindOf(err))
			}
			if msg := apperr.PublicMessage(err); msg != tt.want {
				t.Errorf("message = %q, want %q", msg, tt.want)
			}
		})
	}
}
