package launch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrProfileNotFound   = errors.New("launch profile not found")
	ErrUnsupportedFormat = errors.New("unsupported profile format")
)

// Profile describes a command to launch
type Profile struct {
	Name    string            `yaml:"name" toml:"name" json:"name"`
	Command string            `yaml:"command" toml:"command" json:"command"`
	Args    []string          `yaml:"args" toml:"args" json:"args,omitempty"`
	Dir     string            `yaml:"dir" toml:"dir" json:"dir,omitempty"`
	Env     map[string]string `yaml:"env" toml:"env" json:"env,omitempty"`
	// URL is opened in the browser before the command starts
	URL string `yaml:"url" toml:"url" json:"url,omitempty"`
	// TTY runs the command on a pseudo-terminal
	TTY bool `yaml:"tty" toml:"tty" json:"tty,omitempty"`
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles" toml:"profiles"`
}

// LoadProfiles reads profiles from a .yaml, .yml or .toml file
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	profiles, err := ParseProfiles(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range profiles {
		if profiles[i].Dir != "" && !filepath.IsAbs(profiles[i].Dir) {
			profiles[i].Dir = filepath.Join(base, profiles[i].Dir)
		}
	}
	return profiles, nil
}

// ParseProfiles decodes profiles. format is a file extension or format name.
func ParseProfiles(data []byte, format string) ([]Profile, error) {
	var file profileFile

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := validate(file.Profiles); err != nil {
		return nil, err
	}
	return file.Profiles, nil
}

// Find returns the profile with the given name
func Find(profiles []Profile, name string) (Profile, error) {
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

func validate(profiles []Profile) error {
	seen := make(map[string]bool, len(profiles))
	for i, p := range profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("profile %d: name is required", i)
		}
		if strings.TrimSpace(p.Command) == "" {
			return fmt.Errorf("profile %s: command is required", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("profile %s: duplicate name", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
