package npm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hulo-lang/hulo-npm/internal/platform"
)

// ManifestFilename is the package descriptor consumed by npm.
const ManifestFilename = "package.json"

// manifestFileMode matches generated artifact permissions across the pipeline.
const manifestFileMode os.FileMode = 0o644

// PublishConfig controls registry visibility for scoped packages.
type PublishConfig struct {
	Access string `json:"access"`
}

// Manifest is the package descriptor written for each platform package.
//
// Scoped packages default to restricted access on the registry, so
// PublishConfig pins them public.
type Manifest struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	OS            []string          `json:"os"`
	CPU           []string          `json:"cpu"`
	Keywords      []string          `json:"keywords"`
	Bin           map[string]string `json:"bin"`
	License       string            `json:"license"`
	Homepage      string            `json:"homepage,omitempty"`
	Repository    string            `json:"repository,omitempty"`
	PublishConfig PublishConfig     `json:"publishConfig"`
}

// BuildManifest assembles the descriptor for one platform package.
// The os and cpu constraints come straight from the platform table.
func BuildManifest(d platform.Descriptor, scope, version string) Manifest {
	return Manifest{
		Name:        scope + "/" + d.Key,
		Version:     version,
		Description: d.Description,
		OS:          []string{d.OS},
		CPU:         []string{d.CPU},
		Keywords:    append([]string(nil), d.Keywords...),
		Bin:         map[string]string{BinaryName: LauncherFilename},
		License:     "MIT",
		Homepage:    "https://hulo-lang.github.io/docs/",
		Repository:  "https://github.com/hulo-lang/hulo",
		PublishConfig: PublishConfig{
			Access: "public",
		},
	}
}

// WriteManifest renders the descriptor into dir. Output is deterministic,
// so repeated runs over the same inputs produce byte-identical files.
func (m Manifest) WriteManifest(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ManifestFilename, err)
	}

	data = append(data, '\n')

	path := filepath.Join(dir, ManifestFilename)
	if err := os.WriteFile(path, data, manifestFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
