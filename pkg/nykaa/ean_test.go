package nykaa

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   int
	}{
		{"ascending digits", "123456789012", 0},
		{"all ones", "111111111111", 6},
		{"all zeros", "000000000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digits := make([]int, 12)
			for i, r := range tt.prefix {
				digits[i] = int(r - '0')
			}
			if got := checksum(digits); got != tt.want {
				t.Errorf("checksum(%s) = %d, want %d", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestValidateEAN13(t *testing.T) {
	tests := []struct {
		name string
		ean  string
		want bool
	}{
		{"valid code", "1234567890120", true},
		{"valid all ones", "1111111111116", true},
		{"wrong check digit", "1234567890121", false},
		{"too short", "123456789012", false},
		{"too long", "12345678901200", false},
		{"non digit", "12345678901a0", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateEAN13(tt.ean); got != tt.want {
				t.Errorf("ValidateEAN13(%q) = %v, want %v", tt.ean, got, tt.want)
			}
		})
	}
}

func TestGenerateEAN13IsValid(t *testing.T) {
	for i := 0; i < 50; i++ {
		ean, err := GenerateEAN13()
		if err != nil {
			t.Fatalf("GenerateEAN13: %v", err)
		}
		if !ValidateEAN13(ean) {
			t.Fatalf("generated code %q fails validation", ean)
		}
	}
}

func TestRegistryUniqueness(t *testing.T) {
	reg := NewRegistry()

	codes, err := reg.GenerateBatch(100)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}

	seen := make(map[string]bool)
	for _, ean := range codes {
		if seen[ean] {
			t.Fatalf("duplicate code issued: %s", ean)
		}
		seen[ean] = true
		if !ValidateEAN13(ean) {
			t.Fatalf("batch code %q fails validation", ean)
		}
	}

	if got := reg.Len(); got != 100 {
		t.Errorf("Len() = %d, want 100", got)
	}
}

func TestRegistryClear(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Generate(); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	reg.Clear()
	if got := reg.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}
