package keywords

import (
	"reflect"
	"testing"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple list", "Go, REST, GraphQL", []string{"go", "rest", "graphql"}},
		{"extra whitespace and empties", "  docker ,, kubernetes ,  ", []string{"docker", "kubernetes"}},
		{"single keyword", "microservices", []string{"microservices"}},
		{"empty input", "", []string{}},
		{"multi-word keywords survive", "machine learning, neural networks", []string{"machine learning", "neural networks"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeywords(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
