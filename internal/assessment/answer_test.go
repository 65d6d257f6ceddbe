package assessment_test

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

func TestAnswer_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    assessment.Answer
		wantErr bool
	}{
		{"index", "answer: 2", assessment.Choice(2), false},
		{"true", "answer: true", assessment.Bool(true), false},
		{"false", "answer: false", assessment.Bool(false), false},
		{"missing", "answer:", assessment.Answer{}, false},
		{"string", "answer: B", assessment.Answer{}, true},
		{"list", "answer: [1, 2]", assessment.Answer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				Answer assessment.Answer `yaml:"answer"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && doc.Answer != tt.want {
				t.Errorf("Answer = %v, want %v", doc.Answer, tt.want)
			}
		})
	}
}

func TestAnswer_JSON(t *testing.T) {
	tests := []struct {
		input   string
		want    assessment.Answer
		wantErr bool
	}{
		{"1", assessment.Choice(1), false},
		{"true", assessment.Bool(true), false},
		{"null", assessment.Answer{}, false},
		{"1.5", assessment.Answer{}, true},
		{`"a"`, assessment.Answer{}, true},
	}

	for _, tt := range tests {
		var got assessment.Answer
		err := json.Unmarshal([]byte(tt.input), &got)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, got, tt.want)
		}
		out, err := json.Marshal(got)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(out) != tt.input {
			t.Errorf("Marshal(%v) = %s, want %s", got, out, tt.input)
		}
	}
}
