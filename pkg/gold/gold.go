package gold

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ManifestFileName is the platform manifest that rides along with the
// goldstandard download and is never the groundtruth itself.
const ManifestFileName = "SYNAPSE_METADATA_MANIFEST.tsv"

// Extract returns the single groundtruth file in folder, ignoring the
// manifest. Zero or multiple remaining candidates is an error.
func Extract(folder, manifest string) (string, error) {
	if folder == "" {
		return "", errors.New("goldstandard folder required")
	}
	if manifest == "" {
		manifest = ManifestFileName
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", errors.Wrapf(err, "error reading goldstandard folder: %s", folder)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == manifest {
			continue
		}
		files = append(files, filepath.Join(folder, e.Name()))
	}

	if len(files) != 1 {
		return "", errors.Errorf("expected exactly one groundtruth file in folder, got %d", len(files))
	}

	return files[0], nil
}
