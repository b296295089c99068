package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths represents discovered configuration file paths.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/gdasset/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/gdasset/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.gdasset.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string

	// ProjectRoot is the nearest directory holding a project.godot file.
	ProjectRoot string
}

// projectConfigFiles are the config file names we search for, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	".gdasset.yml",
	".gdasset.yaml",
	"gdasset.yml",
	"gdasset.yaml",
}

// vcsRootMarkers are directories that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// ProjectMarker is the file that marks the root of an engine project.
const ProjectMarker = "project.godot"

// DiscoverPaths finds configuration files in standard locations.
// Missing files are represented as empty strings (not errors).
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	paths := &ConfigPaths{
		System: findSystemConfig(),
		User:   findUserConfig(),
	}

	projectConfig, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = projectConfig

	root, err := FindProjectRoot(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.ProjectRoot = root

	return paths, nil
}

// findSystemConfig returns the path to the system-wide config file, if it exists.
func findSystemConfig() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return findConfigInDir(filepath.Join(programData, "gdasset"))
	}

	return findConfigInDir("/etc/gdasset")
}

// findUserConfig returns the path to the user-level config file, if it exists.
func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}

	return findConfigInDir(filepath.Join(configHome, "gdasset"))
}

// findConfigInDir looks for config files in the given directory.
func findConfigInDir(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops after the first directory that is a VCS root, holds a
// project.godot file, or is the user's home directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	var found string
	err := walkUp(ctx, startDir, func(dir string) bool {
		for _, name := range projectConfigFiles {
			path := filepath.Join(dir, name)
			if fileExists(path) {
				found = path
				return true
			}
		}
		return false
	})
	return found, err
}

// FindProjectRoot searches upward from startDir for a directory holding project.godot.
func FindProjectRoot(ctx context.Context, startDir string) (string, error) {
	var found string
	err := walkUp(ctx, startDir, func(dir string) bool {
		if fileExists(filepath.Join(dir, ProjectMarker)) {
			found = dir
			return true
		}
		return false
	})
	return found, err
}

// walkUp calls visit for startDir and each parent until visit returns true
// or a boundary is reached.
func walkUp(ctx context.Context, startDir string, visit func(dir string) bool) error {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
	}

	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if visit(currentDir) {
			return nil
		}

		if isVCSRoot(currentDir) || fileExists(filepath.Join(currentDir, ProjectMarker)) {
			return nil
		}

		if homeDir != "" && currentDir == homeDir {
			return nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return nil
		}
		currentDir = parentDir
	}
}

// isVCSRoot returns true if the directory contains a VCS root marker.
func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
