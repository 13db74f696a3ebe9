// ABOUTME: Manages the list of recently uploaded listing images
// ABOUTME: Stores image paths as JSON in the config directory

package recentfiles

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// MaxRecentFiles is the maximum number of paths kept
const MaxRecentFiles = 8

// FileName is the file holding the list inside the config directory
const FileName = "recent-images.json"

// RecentFiles manages the list of recently used image paths
type RecentFiles struct {
	configDir string
	files     []string
}

type recentData struct {
	Files []string `json:"files"`
}

// New creates a new RecentFiles manager with the given config directory
func New(configDir string) *RecentFiles {
	return &RecentFiles{configDir: configDir}
}

func (rf *RecentFiles) configFile() string {
	return filepath.Join(rf.configDir, FileName)
}

// Load reads the list from disk, dropping paths that no longer exist.
// A missing or corrupt file is an empty list.
func (rf *RecentFiles) Load() ([]string, error) {
	rf.files = []string{}
	if rf.configDir == "" {
		return rf.files, nil
	}

	data, err := os.ReadFile(rf.configFile())
	if errors.Is(err, os.ErrNotExist) {
		return rf.files, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		return rf.files, nil
	}

	for _, path := range recent.Files {
		if _, err := os.Stat(path); err == nil {
			rf.files = append(rf.files, path)
		}
	}
	return rf.files, nil
}

// Save writes files to disk, keeping at most MaxRecentFiles.
func (rf *RecentFiles) Save(files []string) error {
	if len(files) > MaxRecentFiles {
		files = files[:MaxRecentFiles]
	}
	rf.files = files
	if rf.configDir == "" {
		return nil
	}

	if err := os.MkdirAll(rf.configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(recentData{Files: files}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rf.configFile(), data, 0600)
}

// Add moves path to the front of the list.
func (rf *RecentFiles) Add(path string) error {
	if rf.files == nil {
		if _, err := rf.Load(); err != nil {
			rf.files = []string{}
		}
	}

	files := make([]string, 0, len(rf.files)+1)
	files = append(files, path)
	for _, f := range rf.files {
		if f != path {
			files = append(files, f)
		}
	}
	return rf.Save(files)
}

// List returns the current list, loading it on first use
func (rf *RecentFiles) List() []string {
	if rf.files == nil {
		rf.Load()
	}
	return rf.files
}
