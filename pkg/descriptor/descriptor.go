// Package descriptor models a project's build configuration: the plugins it
// declares and their settings. It reads Maven pom.xml files and, more
// loosely, Gradle build scripts.
package descriptor

import (
	"io/fs"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnsupported is returned for descriptor files this package cannot read.
var ErrUnsupported = errors.New("unsupported build descriptor")

// Kind identifies the descriptor format.
type Kind string

const (
	KindPOM    Kind = "pom"
	KindGradle Kind = "gradle"
)

// Accepted descriptor filenames.
const (
	POMFile          = "pom.xml"
	GradleFile       = "build.gradle"
	GradleKotlinFile = "build.gradle.kts"
)

// Model is a parsed build descriptor.
type Model struct {
	Kind       Kind
	Path       string
	GroupID    string
	ArtifactID string
	Properties map[string]string
	Plugins    []Plugin // active plugins

	// POM only: plugins under pluginManagement and under profiles. Neither
	// is active unless also declared in Plugins or the profile is enabled.
	Managed        []Plugin
	ProfilePlugins []Plugin
}

// Plugin is a declared build plugin. Configuration may be nil.
type Plugin struct {
	GroupID       string
	ArtifactID    string
	Version       string
	Configuration *Node
	Executions    []Execution
}

// Execution is a Maven plugin execution block.
type Execution struct {
	ID            string
	Phase         string
	Goals         []string
	Configuration *Node
}

// ID returns "groupId:artifactId", or just the artifact when no group is set.
func (p Plugin) ID() string {
	if p.GroupID == "" {
		return p.ArtifactID
	}
	return p.GroupID + ":" + p.ArtifactID
}

// ConfigValues collects the text values at path from the plugin-level
// configuration and from every execution's configuration.
func (p Plugin) ConfigValues(path ...string) []string {
	out := p.Configuration.Values(path...)
	for _, e := range p.Executions {
		out = append(out, e.Configuration.Values(path...)...)
	}
	return out
}

// Find returns the first active plugin whose artifact id or
// "group:artifact" id equals one of ids.
func (m *Model) Find(ids ...string) (*Plugin, bool) {
	if m == nil {
		return nil, false
	}
	return findPlugin(m.Plugins, ids)
}

// FindInactive looks for the plugin among managed and profile plugins only.
func (m *Model) FindInactive(ids ...string) (*Plugin, bool) {
	if m == nil {
		return nil, false
	}
	if p, ok := findPlugin(m.Managed, ids); ok {
		return p, true
	}
	return findPlugin(m.ProfilePlugins, ids)
}

func findPlugin(plugins []Plugin, ids []string) (*Plugin, bool) {
	for i := range plugins {
		p := &plugins[i]
		for _, id := range ids {
			if p.ArtifactID == id || p.ID() == id {
				return p, true
			}
		}
	}
	return nil, false
}

// Load reads the descriptor at name inside fsys, choosing the parser by filename.
func Load(fsys fs.FS, name string) (*Model, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	var m *Model
	switch base := baseName(name); base {
	case POMFile:
		m, err = ParsePOM(data)
	case GradleFile, GradleKotlinFile:
		m, err = ParseGradle(data)
	default:
		return nil, errors.Wrapf(ErrUnsupported, "%s", base)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	m.Path = name
	return m, nil
}

func baseName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
