package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the directories the application reads and writes.
// Relative configuration entries resolve against the executable directory
// so the binaries behave the same regardless of working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	bundledCSV string
}

// GetPaths builds the resolved path set from a loaded configuration.
func GetPaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	exeDir := filepath.Dir(exe)

	p := &Paths{
		ExecutableDir: exeDir,
		DataDir:       resolve(exeDir, cfg.Paths.DataDir),
		ReportsDir:    resolve(exeDir, cfg.Paths.ReportsDir),
		LogsDir:       resolve(exeDir, cfg.Paths.LogsDir),
		bundledCSV:    cfg.Paths.BundledCSV,
	}
	return p, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// BundledCSVCandidates returns the locations tried for the preloaded Big 5
// dataset, in order. An explicitly configured path takes priority.
func (p *Paths) BundledCSVCandidates() []string {
	candidates := []string{}
	if p.bundledCSV != "" {
		candidates = append(candidates, p.bundledCSV)
	}
	candidates = append(candidates,
		"big5_data.csv",
		filepath.Join("data", "big5_data.csv"),
		filepath.Join(p.DataDir, "big5_data.csv"),
		filepath.Join(p.ExecutableDir, "big5_data.csv"),
	)
	return candidates
}

// EnsureDirectories creates the writable directories if they do not exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path of a log file inside the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}
