package descriptor

import (
	"encoding/xml"

	"github.com/cockroachdb/errors"
)

type pomProject struct {
	XMLName    xml.Name     `xml:"project"`
	GroupID    string       `xml:"groupId"`
	ArtifactID string       `xml:"artifactId"`
	Properties *Node        `xml:"properties"`
	Plugins    []pomPlugin  `xml:"build>plugins>plugin"`
	Managed    []pomPlugin  `xml:"build>pluginManagement>plugins>plugin"`
	Profiles   []pomProfile `xml:"profiles>profile"`
}

type pomProfile struct {
	Plugins []pomPlugin `xml:"build>plugins>plugin"`
}

type pomPlugin struct {
	GroupID       string         `xml:"groupId"`
	ArtifactID    string         `xml:"artifactId"`
	Version       string         `xml:"version"`
	Configuration *Node          `xml:"configuration"`
	Executions    []pomExecution `xml:"executions>execution"`
}

type pomExecution struct {
	ID            string   `xml:"id"`
	Phase         string   `xml:"phase"`
	Goals         []string `xml:"goals>goal"`
	Configuration *Node    `xml:"configuration"`
}

// ParsePOM decodes a Maven pom.xml. Only plugins under build>plugins are
// active; plugin management and profile plugins are kept apart in Managed
// and ProfilePlugins.
func ParsePOM(data []byte) (*Model, error) {
	var p pomProject
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "decoding pom.xml")
	}
	m := &Model{
		Kind:       KindPOM,
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Properties: map[string]string{},
		Plugins:    pomPlugins(p.Plugins),
		Managed:    pomPlugins(p.Managed),
	}
	if p.Properties != nil {
		for _, c := range p.Properties.Children {
			m.Properties[c.Name] = c.Text
		}
	}
	for _, prof := range p.Profiles {
		m.ProfilePlugins = append(m.ProfilePlugins, pomPlugins(prof.Plugins)...)
	}
	return m, nil
}

func pomPlugins(pps []pomPlugin) []Plugin {
	var out []Plugin
	for _, pp := range pps {
		plugin := Plugin{
			GroupID:       pp.GroupID,
			ArtifactID:    pp.ArtifactID,
			Version:       pp.Version,
			Configuration: pp.Configuration,
		}
		// Maven's implicit group for unqualified plugins.
		if plugin.GroupID == "" {
			plugin.GroupID = "org.apache.maven.plugins"
		}
		for _, e := range pp.Executions {
			plugin.Executions = append(plugin.Executions, Execution(e))
		}
		out = append(out, plugin)
	}
	return out
}
