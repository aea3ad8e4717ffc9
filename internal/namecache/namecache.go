// Package namecache persists the channel-number to display-name mapping for
// an NVR. The file is plain JSON and meant to be hand-editable; manually
// assigned names survive repeated scans because Merge never overwrites an
// existing entry.
package namecache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const fileName = "channel_names.json"

// Path returns the cache file location for one NVR under the archive root.
func Path(archiveDir, nvrID string) string {
	return filepath.Join(archiveDir, nvrID, fileName)
}

// Load reads the channel-name map for an NVR. A missing or unreadable file
// yields an empty map; the run continues without cached names.
func Load(archiveDir, nvrID string) map[int]string {
	path := Path(archiveDir, nvrID)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read channel name cache", "path", path, "error", err)
		}
		return map[int]string{}
	}

	names := map[int]string{}
	if err := json.Unmarshal(data, &names); err != nil {
		slog.Warn("channel name cache is corrupt, ignoring", "path", path, "error", err)
		return map[int]string{}
	}

	return names
}

// Save writes the channel-name map, creating parent directories as needed.
// A write failure is warned about but never fails the run.
func Save(archiveDir, nvrID string, names map[int]string) {
	path := Path(archiveDir, nvrID)

	if err := save(path, names); err != nil {
		slog.Warn("failed to save channel name cache", "path", path, "error", err)
	}
}

func save(path string, names map[int]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal channel names: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temporary file: %w", err)
	}

	return nil
}

// Merge adds discovered names for channels absent from existing. Existing
// entries always win; nothing is ever deleted.
func Merge(existing, discovered map[int]string) map[int]string {
	merged := make(map[int]string, len(existing)+len(discovered))
	for ch, name := range existing {
		merged[ch] = name
	}
	for ch, name := range discovered {
		if _, ok := merged[ch]; !ok {
			merged[ch] = name
		}
	}
	return merged
}
