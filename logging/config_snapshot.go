package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alohaeditor/qunit-acceptor/types"
)

const ConfigSnapshotFilename = "config.json"

// WriteConfigSnapshot stores the effective configuration of the run in its
// directory. The snapshot is stamped with the run ID.
func (l *FileLogger) WriteConfigSnapshot(snap *types.EffectiveConfigSnapshot) error {
	if snap == nil {
		return nil
	}
	stamped := *snap
	stamped.RunID = l.runID

	data, err := json.MarshalIndent(stamped, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config snapshot: %w", err)
	}
	path := filepath.Join(l.logDir, ConfigSnapshotFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config snapshot: %w", err)
	}
	return nil
}
