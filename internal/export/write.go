package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes body into dir under name after validating the directory.
// It returns the full output path.
func WriteFile(dir, name, body string) (string, error) {
	if err := ValidateOutputDir(dir); err != nil {
		return "", err
	}

	clean := SanitizeName(name, 160)
	if clean == "" || clean != filepath.Base(clean) {
		return "", fmt.Errorf("invalid export file name %q", name)
	}

	outputPath := filepath.Join(dir, clean)
	if err := os.WriteFile(outputPath, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return outputPath, nil
}
