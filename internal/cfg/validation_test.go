package cfg

import (
	"strings"
	"testing"
	"time"
)

// createValidSettings creates a valid Settings struct for testing
func createValidSettings() *Settings {
	return &Settings{
		TestSize:     0.4,
		Seed:         42,
		Neighbors:    1,
		Metric:       "euclidean",
		FetchTimeout: 30 * time.Second,
		LogLevel:     "info",
	}
}

func TestValidateSettings_ValidConfig(t *testing.T) {
	settings := createValidSettings()

	err := validateSettings(settings)
	if err != nil {
		t.Errorf("Expected valid config to pass, got error: %v", err)
	}
}

func TestValidateSettings_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"zero test size", func(s *Settings) { s.TestSize = 0 }, "test size"},
		{"negative test size", func(s *Settings) { s.TestSize = -0.2 }, "test size"},
		{"full test size", func(s *Settings) { s.TestSize = 1 }, "test size"},
		{"zero neighbors", func(s *Settings) { s.Neighbors = 0 }, "neighbors"},
		{"unknown metric", func(s *Settings) { s.Metric = "cosine" }, "unknown distance metric"},
		{"short timeout", func(s *Settings) { s.FetchTimeout = 500 * time.Millisecond }, "fetch timeout"},
		{"long timeout", func(s *Settings) { s.FetchTimeout = time.Hour }, "fetch timeout"},
		{"small valid test size", func(s *Settings) { s.TestSize = 0.01 }, ""},
		{"many neighbors", func(s *Settings) { s.Neighbors = 25 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := createValidSettings()
			tt.mutate(settings)

			err := validateSettings(settings)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}
