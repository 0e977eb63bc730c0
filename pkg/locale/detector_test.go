package locale

import (
	"testing"
)

func TestCanonicalCountry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "alias in lowercase",
			input: "usa",
			want:  "United States",
		},
		{
			name:  "code as alias",
			input: "uk",
			want:  "United Kingdom",
		},
		{
			name:  "local name",
			input: "Bharat",
			want:  "India",
		},
		{
			name:  "canonical name passes through",
			input: "India",
			want:  "India",
		},
		{
			name:  "case-insensitive canonical name",
			input: "iNDIA",
			want:  "India",
		},
		{
			name:  "surrounding whitespace",
			input: "  uae  ",
			want:  "United Arab Emirates",
		},
		{
			name:  "unknown country kept as typed",
			input: "Wakanda",
			want:  "Wakanda",
		},
		{
			name:  "empty input kept",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalCountry(tt.input)
			if got != tt.want {
				t.Errorf("CanonicalCountry(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountryCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "canonical name",
			input: "Japan",
			want:  "JP",
		},
		{
			name:  "alias",
			input: "nippon",
			want:  "JP",
		},
		{
			name:  "unknown",
			input: "Atlantis",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountryCode(tt.input)
			if got != tt.want {
				t.Errorf("CountryCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
