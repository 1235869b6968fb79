package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "control chars dropped", in: " A\nB\rC\tD\x00 ", max: 100, want: "ABCD"},
		{name: "allowlist kept", in: "Émile (2nd take), v1.0 - final_cut", max: 100, want: "Émile (2nd take), v1.0 - final_cut"},
		{name: "reserved chars replaced", in: "bad<>|\"name", max: 100, want: "bad____name"},
		{name: "apostrophe replaced", in: "Nadia's harbor", max: 100, want: "Nadia_s harbor"},
		{name: "truncated by runes", in: "ééééééééééé", max: 4, want: "éééé"},
		{name: "no limit", in: "abcdefghijklmnopqrstuvwxyz", max: 0, want: "abcdefghijklmnopqrstuvwxyz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.in, tc.max); got != tc.want {
				t.Errorf("SanitizeName(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "An Unlikely  Hero", max: 40, want: "an-unlikely-hero"},
		{in: "Sci-Fi", max: 40, want: "sci-fi"},
		{in: "a/b\\c", max: 40, want: "a_b_c"},
		{in: "  ", max: 40, want: ""},
		{in: "one two three", max: 7, want: "one-two"},
	}

	for _, tc := range tests {
		if got := Slug(tc.in, tc.max); got != tc.want {
			t.Errorf("Slug(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestValidateOutputDir(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "script.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{name: "existing dir", dir: base, wantErr: false},
		{name: "blank", dir: "   ", wantErr: true},
		{name: "missing", dir: filepath.Join(base, "renders"), wantErr: true},
		{name: "traversal", dir: base + "/../etc", wantErr: true},
		{name: "trailing slash", dir: base + "/", wantErr: true},
		{name: "regular file", dir: file, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOutputDir(tc.dir)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateOutputDir(%q) error = %v, wantErr %v", tc.dir, err, tc.wantErr)
			}
		})
	}
}
