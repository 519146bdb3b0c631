package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// zipMagic is the local-file-header signature every ZIP archive starts with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// IsZip reports whether the content looks like a ZIP archive.
func IsZip(content []byte) bool {
	return bytes.HasPrefix(content, zipMagic)
}

// ExtractXML pulls the first .xml entry out of a ZIP archive. It returns the
// entry content, its name inside the archive, and how many XML entries the
// archive held in total.
func ExtractXML(content []byte) ([]byte, string, int, error) {
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to open ZIP archive: %w", err)
	}

	var entries []*zip.File
	for _, f := range r.File {
		if strings.EqualFold(filepath.Ext(f.Name), ".xml") {
			entries = append(entries, f)
		}
	}
	if len(entries) == 0 {
		return nil, "", 0, fmt.Errorf("no XML file found inside ZIP archive")
	}

	rc, err := entries[0].Open()
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to open %q inside ZIP: %w", entries[0].Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to read %q inside ZIP: %w", entries[0].Name, err)
	}
	return data, entries[0].Name, len(entries), nil
}

// ExtractContent reads a source file and resolves it to XML content plus the
// logical filename: for a ZIP input that is the extracted entry's name, for a
// plain file the path's base name.
func ExtractContent(path string) ([]byte, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	if IsZip(content) {
		data, name, _, err := ExtractXML(content)
		if err != nil {
			return nil, "", fmt.Errorf("archive %q: %w", path, err)
		}
		return data, name, nil
	}
	return content, filepath.Base(path), nil
}
