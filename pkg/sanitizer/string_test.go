package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"leading and trailing", "  Sea View Cabin  ", "Sea View Cabin"},
		{"internal runs collapse", "Sea   View\tCabin", "Sea View Cabin"},
		{"newlines collapse", "Sea\nView\nCabin", "Sea View Cabin"},
		{"already clean", "Sea View Cabin", "Sea View Cabin"},
		{"unicode preserved", "Chalet Café  München", "Chalet Café München"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Alice@Example.COM ", "alice@example.com"},
		{"bob@example.com", "bob@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"bare domain", "example.com/img.jpg", "https://example.com/img.jpg"},
		{"http upgraded", "http://example.com/img.jpg", "https://example.com/img.jpg"},
		{"www stripped", "https://www.example.com/img.jpg", "https://example.com/img.jpg"},
		{"trailing slash stripped", "https://example.com/photos/", "https://example.com/photos"},
		{"utm params dropped", "https://example.com/img.jpg?utm_source=x&size=large", "https://example.com/img.jpg?size=large"},
		{"garbage", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.input); got != tt.expected {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
