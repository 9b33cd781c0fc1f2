// Package archive extracts a named entry from a ZIP archive, the
// off-the-shelf collaborator that hands AndroidManifest.xml's raw bytes to
// the decoder when the input is an APK rather than a bare AXML file.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// ManifestEntry is the conventional path of the manifest inside an APK.
const ManifestEntry = "AndroidManifest.xml"

// ExtractEntry reads and decompresses a single named entry from a ZIP
// archive held in memory.
func ExtractEntry(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip archive: %w", err)
	}
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", name, err)
		}
		defer rc.Close()
		out, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", name, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("archive entry %s not found", name)
}

// ExtractManifest is a convenience wrapper for the common case.
func ExtractManifest(data []byte) ([]byte, error) {
	return ExtractEntry(data, ManifestEntry)
}
