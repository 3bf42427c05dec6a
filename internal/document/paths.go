package document

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/cardmotion/internal/system"
)

// GeneratePath creates a timestamped document filename in dir.
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("timeline_%s.yaml", timestamp))
}

// FindLatest returns the most recently modified document in dir.
func FindLatest(dir string) (string, error) {
	path, err := system.FindLatestFile(dir, system.DocumentExtensions...)
	if err != nil {
		return "", fmt.Errorf("failed to find timeline document: %w", err)
	}
	return path, nil
}
