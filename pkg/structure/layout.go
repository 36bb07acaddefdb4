package structure

import (
	"github.com/dkoosis/dpcheck/pkg/assignment"
	"github.com/dkoosis/dpcheck/pkg/coverage"
	"github.com/dkoosis/dpcheck/pkg/descriptor"
	"github.com/dkoosis/dpcheck/pkg/diagnostic"
)

const gradleExample = "Check https://github.com/Diogo-a21905661/test-kotlin-gradle-assignment for an example"

// layout runs the engine-specific gate chain. It returns the parsed
// descriptor (possibly nil) and whether validation may continue.
type layout interface {
	check(r *validation) (*descriptor.Model, bool)
}

type mavenLayout struct{}

type gradleLayout struct{}

func layoutFor(engine assignment.Engine) layout {
	switch engine {
	case assignment.EngineMaven:
		return mavenLayout{}
	case assignment.EngineGradle, assignment.EngineAndroid:
		return gradleLayout{}
	default:
		panic(unknown("engine", engine))
	}
}

func (gradleLayout) check(r *validation) (*descriptor.Model, bool) {
	script := ""
	for _, name := range []string{descriptor.GradleFile, descriptor.GradleKotlinFile} {
		if r.exists(name) {
			script = name
			break
		}
	}
	if script == "" {
		r.report.Error("Assignment must have a build.gradle file.", gradleExample)
		return nil, false
	}
	r.report.Info("Assignment has a build.gradle")

	if !r.exists("gradlew") || !r.exists("gradlew.bat") {
		r.report.Error("Assignment must have a gradlew file.", gradleExample)
		return nil, false
	}
	r.report.Info("Assignment has a gradle wrapper")

	if !r.exists("gradle.properties") {
		r.report.Error("Assignment must have a gradle.properties file.", gradleExample)
		return nil, false
	}
	r.report.Info("Assignment has a properties file")

	// Gradle scripts are code; an unreadable one only disables the coverage check.
	model, err := descriptor.Load(r.fsys, script)
	if err != nil {
		r.logger.Warn("build script not parsed", "file", script, "err", err)
		return nil, true
	}
	return model, true
}

func (mavenLayout) check(r *validation) (*descriptor.Model, bool) {
	if !r.exists(descriptor.POMFile) {
		r.report.Error("Assignment must have a pom.xml file.",
			"Maven assignments are built with the pom.xml in the project root.")
		return nil, false
	}
	r.report.Info("Assignment has a pom.xml")

	model, err := descriptor.Load(r.fsys, descriptor.POMFile)
	if err != nil {
		r.report.Error("Error reading pom.xml", err.Error())
		return nil, false
	}

	r.checkCurrentUserID(model)
	r.checkUntrimmedStacktrace(model)
	if r.cfg.MaxMemoryMB > 0 {
		r.checkMaxMemory(model)
	}
	return model, true
}

func (r *validation) checkCoverage(model *descriptor.Model) {
	if model == nil {
		return
	}
	coverage.Validate(model, r.cfg, r.report, r.logger)
}

const (
	surefire      = "maven-surefire-plugin"
	argLine       = "${dp.argLine}"
	userIDLookup  = `System.getProperty("dropProject.currentUserId")`
	argLineDetail = "The maven-surefire-plugin must pass " + argLine + " to the forked test JVM. " +
		"Please add the following lines to your POM file:"
)

const argLineSnippet = `<plugin>
    <groupId>org.apache.maven.plugins</groupId>
    <artifactId>maven-surefire-plugin</artifactId>
    <version>2.19.1</version>
    <configuration>
        <argLine>${dp.argLine}</argLine>
    </configuration>
</plugin>`

const trimSnippet = `<plugin>
   <groupId>org.apache.maven.plugins</groupId>
   <artifactId>maven-surefire-plugin</artifactId>
   <version>2.19.1</version>
   <configuration>
       ...
       <trimStackTrace>false</trimStackTrace>
   </configuration>
</plugin>`

func hasArgLine(model *descriptor.Model) bool {
	p, ok := model.Find(surefire)
	return ok && p.Configuration.Value("argLine") == argLine
}

func (r *validation) warnArgLine(msg string) {
	r.report.Add(diagnostic.Record{
		Severity: diagnostic.SeverityWarning,
		Message:  msg,
		Detail:   argLineDetail,
		Snippet:  argLineSnippet,
	})
}

// checkCurrentUserID verifies that projects reading the submitter id
// through a system property let the runner inject it.
func (r *validation) checkCurrentUserID(model *descriptor.Model) {
	if !r.anySourceContains(userIDLookup) {
		r.report.Info("Doesn't use the 'dropProject.currentUserId' system property")
		return
	}
	if !hasArgLine(model) {
		r.warnArgLine("POM file is not prepared to use the 'dropProject.currentUserId' system property")
		return
	}
	r.report.Info("POM file is prepared to set the 'dropProject.currentUserId' system property")
}

func (r *validation) checkUntrimmedStacktrace(model *descriptor.Model) {
	p, ok := model.Find(surefire)
	if ok && p.Version != "" && p.Configuration.Value("trimStackTrace") != "false" {
		r.report.Add(diagnostic.Record{
			Severity: diagnostic.SeverityWarning,
			Message:  "POM file is not configured to prevent stacktrace trimming on junit errors",
			Detail: "By default, the maven-surefire-plugin trims stacktraces (version >= 2.2), which may " +
				"complicate students efforts to understand junit reports. " +
				"It is suggested to set the 'trimStackTrace' flag to false, like this:",
			Snippet: trimSnippet,
		})
		return
	}
	r.report.Info("POM file is prepared to prevent stacktrace trimming on junit errors")
}

func (r *validation) checkMaxMemory(model *descriptor.Model) {
	if !hasArgLine(model) {
		r.warnArgLine("POM file is not prepared to set the max memory available")
		return
	}
	r.report.Info("POM file is prepared to define the max memory for each submission")
}
