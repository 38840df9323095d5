package synthesis

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RouteBytes/synthese-cli/internal/utils"
)

// manifest is the provenance sidecar written next to the synthesis CSV.
// The CSV itself stays free of run-specific values so reruns on
// unchanged inputs are byte-identical; the uuid and timestamp live here.
type manifest struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Summary     *Summary  `yaml:",inline"`
}

func writeManifest(path string, sum *Summary) error {
	b, err := yaml.Marshal(&manifest{GeneratedAt: time.Now().UTC(), Summary: sum})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
