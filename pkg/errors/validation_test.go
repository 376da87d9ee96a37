package errors

import "testing"

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "serde", false},
		{"dashes", "tokio-util", false},
		{"control", "ser\x07de", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern("--dependency", tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePattern() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateManifestPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty", "", false},
		{"relative", "Cargo.toml", false},
		{"nested", "crates/core/Cargo.toml", false},
		{"wrong name", "crates/core/pyproject.toml", true},
		{"directory", "crates/core", true},
		{"null byte", "Cargo.toml\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateManifestPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
