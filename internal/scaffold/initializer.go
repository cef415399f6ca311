// Package scaffold writes a starter easel.yml and .env.example.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*
var templatesFS embed.FS

// Files created by Initialize, relative to the target directory.
const (
	ConfigFile = "easel.yml"
	EnvFile    = ".env.example"
)

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize writes the starter files into dir.
// Existing files are an error unless force is set, in which case they are overwritten.
func Initialize(dir string, force bool) ([]string, error) {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return nil, err
		}
	}

	files, err := templateFiles()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	created := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.Path)
		if err := os.WriteFile(path, file.Content, file.Permissions); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		created = append(created, file.Path)
	}

	if err := validateConfig(filepath.Join(dir, ConfigFile)); err != nil {
		return nil, err
	}
	return created, nil
}

// CheckExisting returns an error naming every starter file already in dir.
func CheckExisting(dir string) error {
	var existing []string
	for _, name := range []string{ConfigFile, EnvFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing = append(existing, name)
		}
	}

	if len(existing) == 0 {
		return nil
	}

	msg := "project already initialized\n\nFound existing"
	if len(existing) == 1 {
		msg += fmt.Sprintf(": %s\n", existing[0])
	} else {
		msg += " files:\n"
		for _, name := range existing {
			msg += fmt.Sprintf("  - %s\n", name)
		}
	}
	msg += "\nUse 'easel init --force' to overwrite"
	return fmt.Errorf("%s", msg)
}

func templateFiles() ([]FileInfo, error) {
	config, err := templatesFS.ReadFile("templates/easel.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read easel.yml template: %w", err)
	}
	env, err := templatesFS.ReadFile("templates/env.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read .env template: %w", err)
	}

	return []FileInfo{
		{Path: ConfigFile, Content: config, Permissions: 0644},
		{Path: EnvFile, Content: env, Permissions: 0600},
	}, nil
}

// validateConfig checks the written config is well-formed YAML.
// It is not semantically valid until the board id is filled in.
func validateConfig(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", ConfigFile, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("created %s is not valid YAML: %w", ConfigFile, err)
	}
	return nil
}
