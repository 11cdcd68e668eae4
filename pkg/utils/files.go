package utils

import (
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// DefaultDocumentName is used when a source path yields no usable name.
const DefaultDocumentName = "DOC1"

// DocumentName derives a store name from a source path: the base name
// without extension, upper-cased, letters and digits only, at most eight
// characters and starting with a letter.
func DocumentName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var sb strings.Builder
	for _, r := range strings.ToUpper(base) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if name == "" {
		return DefaultDocumentName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "D" + name
	}
	if len(name) > 8 {
		name = name[:8]
	}
	return name
}
