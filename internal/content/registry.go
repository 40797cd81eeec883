package content

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/validation"
)

// Filter narrows exercise listings. Empty fields match everything.
type Filter struct {
	Type       models.ExerciseType
	Topic      string
	Difficulty models.Difficulty
}

func (f Filter) matches(ex models.Exercise) bool {
	return (f.Type == "" || ex.Type == f.Type) &&
		(f.Topic == "" || ex.Topic == f.Topic) &&
		(f.Difficulty == "" || ex.Difficulty == f.Difficulty)
}

// Registry provides read-only access to loaded content.
//
// Structurally broken exercises are kept and reported through Warnings:
// grading them yields a zero score instead of an error.
type Registry struct {
	loader *Loader
	log    *logger.Logger

	mu              sync.RWMutex
	exercises       map[string]models.Exercise
	rotation        []models.RotationEntry
	rotationVersion string
	warnings        []string
}

// NewRegistry creates a new content registry
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		loader:    loader,
		log:       logger.Default().WithPrefix("content"),
		exercises: make(map[string]models.Exercise),
	}
}

// Load reads all exercises and the rotation table into memory, replacing
// anything loaded before.
func (r *Registry) Load() error {
	exercises, err := r.loader.LoadExercises()
	if err != nil {
		return fmt.Errorf("load exercises: %w", err)
	}
	rotation, err := r.loader.LoadRotation()
	if err != nil {
		return fmt.Errorf("load rotation: %w", err)
	}

	byID := make(map[string]models.Exercise, len(exercises))
	var warnings []string
	for i, ex := range exercises {
		if ex.ID == "" {
			return fmt.Errorf("exercise #%d has no id", i+1)
		}
		if _, dup := byID[ex.ID]; dup {
			return fmt.Errorf("duplicate exercise id: %s", ex.ID)
		}
		byID[ex.ID] = ex
		if err := validation.CheckExercise(ex); err != nil {
			warnings = append(warnings, fmt.Sprintf("exercise %s: %v", ex.ID, err))
		}
	}
	for i, entry := range rotation.Entries {
		if err := validation.CheckExercise(entry.Exercise); err != nil {
			warnings = append(warnings, fmt.Sprintf("rotation entry %d: %v", i, err))
		}
	}

	for _, w := range warnings {
		r.log.Warn("malformed content: %s", w)
	}
	r.log.Info("loaded %d exercises and %d rotation entries (version %q)", len(byID), len(rotation.Entries), rotation.Version)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises = byID
	r.rotation = rotation.Entries
	r.rotationVersion = rotation.Version
	r.warnings = warnings
	return nil
}

// Get returns an exercise by ID
func (r *Registry) Get(id string) (models.Exercise, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.exercises[id]
	return ex, ok
}

// List returns the exercises matching filter ordered by id
func (r *Registry) List(filter Filter) []models.Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exercises := make([]models.Exercise, 0, len(r.exercises))
	for _, ex := range r.exercises {
		if filter.matches(ex) {
			exercises = append(exercises, ex)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].ID < exercises[j].ID })
	return exercises
}

// Rotation returns a copy of the rotation table and its version.
func (r *Registry) Rotation() ([]models.RotationEntry, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]models.RotationEntry, len(r.rotation))
	copy(entries, r.rotation)
	return entries, r.rotationVersion
}

// Warnings lists the structural problems found by the last Load.
func (r *Registry) Warnings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.warnings...)
}
