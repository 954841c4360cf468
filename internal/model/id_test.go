package model

import (
	"testing"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(IDTypeRun)
	if err != nil {
		t.Fatalf("GenerateID returned error: %v", err)
	}
	if !ValidateID(id) {
		t.Errorf("generated ID %q does not match format", id)
	}
	if id[:4] != "run_" {
		t.Errorf("expected run_ prefix, got %q", id)
	}
}

func TestGenerateID_InvalidType(t *testing.T) {
	_, err := GenerateID("invalid")
	if err == nil {
		t.Error("expected error for invalid ID type")
	}
}

func TestGenerateID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID(IDTypeRun)
		if err != nil {
			t.Fatalf("GenerateID returned error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid run", "run_1771722000_a3f2b7c1", true},
		{"story prefix", "story_1771722060_b7c1d4e9", false},
		{"invalid prefix", "xxx_1771722000_a3f2b7c1", false},
		{"short timestamp", "run_177172200_a3f2b7c1", false},
		{"long timestamp", "run_17717220001_a3f2b7c1", false},
		{"uppercase hex", "run_1771722000_A3F2B7C1", false},
		{"short hex", "run_1771722000_a3f2b7c", false},
		{"empty", "", false},
		{"no separators", "run1771722000a3f2b7c1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateID(tt.id); got != tt.valid {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestParseIDTimestamp(t *testing.T) {
	ts, err := ParseIDTimestamp("run_1771722000_a3f2b7c1")
	if err != nil {
		t.Fatalf("ParseIDTimestamp returned error: %v", err)
	}
	if ts.Unix() != 1771722000 {
		t.Errorf("expected unix 1771722000, got %d", ts.Unix())
	}

	if _, err := ParseIDTimestamp("bogus"); err == nil {
		t.Error("expected error for malformed ID")
	}
}
