// Package coverage checks that a build descriptor's coverage plugin agrees
// with the assignment's "calculate coverage of student tests" flag.
package coverage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/descriptor"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
)

// Plugin identifiers searched for in each descriptor kind.
const (
	MavenPlugin  = "jacoco-maven-plugin"
	GradlePlugin = "jacoco"
)

// IncludePattern is the include entry the plugin must carry: the package
// path followed by a wildcard.
func IncludePattern(cfg assignment.Config) string {
	return cfg.PackagePath() + "/*"
}

// Validate appends at most one record to report:
//
//	plugin absent,  coverage required     → ERROR with a snippet to add
//	plugin absent,  coverage not required → nothing
//	plugin present, coverage required     → INFO, or ERROR when the include pattern is missing
//	plugin present, coverage not required → WARNING suggesting removal
func Validate(m *descriptor.Model, cfg assignment.Config, report *diagnostic.Report, logger *log.Logger) {
	v := vocabularyFor(m)
	plugin, found := m.Find(v.pluginID, "org.jacoco:"+v.pluginID)
	required := cfg.CalculateStudentTestsCoverage
	if logger != nil {
		logger.Debug("coverage plugin lookup", "plugin", v.pluginID, "found", found, "required", required)
		if _, inactive := m.FindInactive(v.pluginID, "org.jacoco:"+v.pluginID); !found && inactive {
			logger.Debug("coverage plugin is only managed or in a profile; treated as absent", "plugin", v.pluginID)
		}
	}

	switch {
	case !found && required:
		report.Add(diagnostic.Record{
			Severity: diagnostic.SeverityError,
			Message:  v.file + " is not prepared to calculate coverage",
			Detail: fmt.Sprintf("The assignment has the flag 'Calculate coverage of student tests?' set to 'Yes' "+
				"but the %s doesn't include the %s. Please add the following lines to your %s:",
				v.lowerFile, v.pluginName, v.lowerFile),
			Snippet: v.snippet(IncludePattern(cfg)),
		})
	case !found:
		// nothing to report
	case required:
		if hasInclude(plugin, IncludePattern(cfg)) {
			report.Info(v.file + " is prepared to calculate coverage")
			return
		}
		report.Add(diagnostic.Record{
			Severity: diagnostic.SeverityError,
			Message:  v.pluginName + " (used for coverage) has a configuration problem",
			Detail: fmt.Sprintf("The %s must include a configuration that includes only the classes of "+
				"the assignment package. Please fix this in your assignment %s. Configuration example:",
				v.pluginName, v.lowerFile),
			Snippet: v.snippet(IncludePattern(cfg)),
		})
	default:
		report.Warn(
			v.file+" includes a plugin to calculate coverage but the assignment has the flag "+
				"'Calculate coverage of student tests?' set to 'No'",
			"For performance reasons, you should remove the "+v.pluginName+" from your "+v.lowerFile)
	}
}

func hasInclude(p *descriptor.Plugin, pattern string) bool {
	for _, inc := range p.ConfigValues("includes", "include") {
		if strings.TrimSpace(inc) == pattern {
			return true
		}
	}
	return false
}

type vocabulary struct {
	pluginID   string
	pluginName string
	file       string
	lowerFile  string
	snippet    func(include string) string
}

func vocabularyFor(m *descriptor.Model) vocabulary {
	if m != nil && m.Kind == descriptor.KindGradle {
		return vocabulary{
			pluginID:   GradlePlugin,
			pluginName: "jacoco plugin",
			file:       "Gradle build file",
			lowerFile:  "gradle build file",
			snippet:    gradleSnippet,
		}
	}
	return vocabulary{
		pluginID:   MavenPlugin,
		pluginName: MavenPlugin,
		file:       "POM file",
		lowerFile:  "POM file",
		snippet:    pomSnippet,
	}
}

func pomSnippet(include string) string {
	return `<plugin>
    <groupId>org.jacoco</groupId>
    <artifactId>jacoco-maven-plugin</artifactId>
    <version>0.8.2</version>
    <configuration>
        <includes>
            <include>` + include + `</include>
        </includes>
    </configuration>
    <executions>
        <execution>
            <goals>
                <goal>prepare-agent</goal>
            </goals>
        </execution>
        <execution>
            <id>generate-code-coverage-report</id>
            <phase>test</phase>
            <goals>
                <goal>report</goal>
            </goals>
        </execution>
    </executions>
</plugin>`
}

func gradleSnippet(include string) string {
	return `plugins {
    jacoco
}

tasks.jacocoTestReport {
    dependsOn(tasks.test)
    reports {
        csv.required.set(true)
    }
    classDirectories.setFrom(files(classDirectories.files.map {
        fileTree(it) { include("` + include + `") }
    }))
}`
}
