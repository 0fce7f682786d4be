package mod

import (
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

const metaExt = ".meta"

// Info is the content of a mod's "<dir>/<dir>.meta" file. The file is YAML;
// JSON files are accepted as well since YAML is a superset of JSON.
type Info struct {
	Name              string `yaml:"name" json:"name"`
	DisplayName       string `yaml:"display_name" json:"display_name"`
	ModVersion        string `yaml:"mod_version" json:"mod_version"`
	TargetGameVersion string `yaml:"target_game_version" json:"target_game_version"`

	version    *semver.Version
	constraint *semver.Constraints
}

// ReadInfo reads and validates a meta file.
func ReadInfo(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseInfo(data)
}

func ParseInfo(data []byte) (Info, error) {
	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidInfo, err)
	}
	if err := info.init(); err != nil {
		return Info{}, err
	}
	return info, nil
}

func (i *Info) init() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidInfo)
	}

	if i.ModVersion == "" {
		i.ModVersion = "0.0.0"
	}
	v, err := semver.NewVersion(i.ModVersion)
	if err != nil {
		return fmt.Errorf("%w: mod_version %q: %v", ErrInvalidInfo, i.ModVersion, err)
	}
	i.version = v

	c, err := parseTarget(i.TargetGameVersion)
	if err != nil {
		return fmt.Errorf("%w: target_game_version %q: %v", ErrInvalidInfo, i.TargetGameVersion, err)
	}
	i.constraint = c
	return nil
}

// parseTarget accepts a semver constraint. A bare version such as "1.2" is
// read as "^1.2" so patch releases of the game keep loading the mod.
func parseTarget(target string) (*semver.Constraints, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		target = "*"
	}
	if !strings.ContainsAny(target, "<>=~^*xX, |") {
		if _, err := semver.NewVersion(target); err == nil {
			target = "^" + target
		}
	}
	return semver.NewConstraint(target)
}

// Version is the parsed mod version.
func (i Info) Version() *semver.Version { return i.version }

// Matches reports whether the mod targets the given game version.
func (i Info) Matches(gameVersion *semver.Version) bool {
	if i.constraint == nil || gameVersion == nil {
		return false
	}
	return i.constraint.Check(gameVersion)
}

// FullDisplayName renders "Display Name (name) v1.0.0".
func (i Info) FullDisplayName() string {
	display := i.DisplayName
	if display == "" {
		display = i.Name
	}
	version := i.ModVersion
	if i.version != nil {
		version = i.version.String()
	}
	return fmt.Sprintf("%s (%s) v%s", display, i.Name, version)
}
