package sections

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"gopkg.in/yaml.v3"
)

// roleFile is the on-disk shape of one role's section configuration.
type roleFile struct {
	Role   string                     `yaml:"role"`
	Stages map[string][]SectionConfig `yaml:"stages"`
}

// Library holds every loaded role/stage layout.
type Library struct {
	layouts map[models.Role]map[models.Stage][]SectionConfig
}

// Sections returns the ordered section list for a role and stage. The
// second return reports whether a layout exists at all; an existing but
// empty layout is a valid input to the dispatcher (empty-state rule).
func (l *Library) Sections(role models.Role, stage models.Stage) ([]SectionConfig, bool) {
	stages, ok := l.layouts[role]
	if !ok {
		return nil, false
	}
	cfg, ok := stages[stage]
	return cfg, ok
}

// RoleCount returns how many roles have at least one layout.
func (l *Library) RoleCount() int {
	return len(l.layouts)
}

// Load reads every *.yaml file in folder into a Library. Role and stage
// names must be known; section types are not validated here because the
// dispatcher renders unknown types as placeholders by contract.
func Load(folder string) (*Library, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading section config folder %s: %w", folder, err)
	}

	lib := &Library{layouts: map[models.Role]map[models.Stage][]SectionConfig{}}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading section config %s: %w", entry.Name(), err)
		}

		if err := lib.addFile(entry.Name(), data); err != nil {
			return nil, err
		}
	}

	if len(lib.layouts) == 0 {
		return nil, fmt.Errorf("no section configs found in %s", folder)
	}

	return lib, nil
}

// Parse builds a Library from in-memory YAML documents keyed by file name.
func Parse(files map[string][]byte) (*Library, error) {
	lib := &Library{layouts: map[models.Role]map[models.Stage][]SectionConfig{}}
	for name, data := range files {
		if err := lib.addFile(name, data); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *Library) addFile(name string, data []byte) error {
	var file roleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing section config %s: %w", name, err)
	}

	role, err := models.ParseRole(file.Role)
	if err != nil {
		return fmt.Errorf("section config %s: %w", name, err)
	}
	if _, exists := l.layouts[role]; exists {
		return fmt.Errorf("section config %s: duplicate layout for role %s", name, role)
	}

	stages := map[models.Stage][]SectionConfig{}
	for rawStage, cfgs := range file.Stages {
		stage, err := models.ParseStage(rawStage)
		if err != nil {
			return fmt.Errorf("section config %s: %w", name, err)
		}
		stages[stage] = cfgs
	}

	l.layouts[role] = stages
	return nil
}
