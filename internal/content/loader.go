// Package content loads authored exercises and the daily challenge rotation
// table from YAML.
//
// Layout under the content directory:
//
//	exercises/*.yaml   one or more files, each with an "exercises" list
//	rotation.yaml      the versioned rotation table
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vytor/codetrail/internal/models"
	"gopkg.in/yaml.v3"
)

// ExerciseFile represents the YAML structure of an exercise file
type ExerciseFile struct {
	Exercises []models.Exercise `yaml:"exercises"`
}

// RotationFile represents the YAML structure of the rotation table
type RotationFile struct {
	Version string                 `yaml:"version"`
	Entries []models.RotationEntry `yaml:"entries"`
}

// Loader reads content files from a base directory
type Loader struct {
	basePath string
}

// NewLoader creates a new content loader
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadExercises loads every exercise file in file name order
func (l *Loader) LoadExercises() ([]models.Exercise, error) {
	paths, err := filepath.Glob(filepath.Join(l.basePath, "exercises", "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list exercise files: %w", err)
	}
	sort.Strings(paths)

	var exercises []models.Exercise
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read exercise file: %w", err)
		}

		var file ExerciseFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse exercise file %s: %w", filepath.Base(path), err)
		}
		exercises = append(exercises, file.Exercises...)
	}
	return exercises, nil
}

// LoadRotation loads the rotation table
func (l *Loader) LoadRotation() (*RotationFile, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, "rotation.yaml"))
	if err != nil {
		return nil, fmt.Errorf("read rotation file: %w", err)
	}

	var file RotationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rotation file: %w", err)
	}
	return &file, nil
}
