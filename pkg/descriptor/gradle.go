package descriptor

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// Patterns for the subset of Gradle DSL this package understands. Both the
// Groovy and Kotlin flavours are accepted.
var (
	// id("jacoco"), id 'jacoco', id "org.jetbrains.kotlin.jvm" version "1.9.0"
	pluginIDRe = regexp.MustCompile(`^\s*id\s*\(?\s*["']([^"']+)["']\s*\)?(?:\s+version\s+["']([^"']+)["'])?`)
	// kotlin("jvm") version "1.9.0"
	kotlinPluginRe = regexp.MustCompile(`^\s*kotlin\s*\(\s*["']([^"']+)["']\s*\)(?:\s+version\s+["']([^"']+)["'])?`)
	// apply plugin: 'jacoco'
	applyPluginRe = regexp.MustCompile(`^\s*apply\s*\(?\s*plugin\s*[:=]\s*["']([^"']+)["']`)
	// group = "org.example"
	groupRe = regexp.MustCompile(`^\s*group\s*=\s*["']([^"']+)["']`)
	// toolVersion = "0.8.8"
	toolVersionRe = regexp.MustCompile(`^\s*toolVersion\s*=\s*["']([^"']+)["']`)
	// include("org/example/*"), includes = listOf("a/*"), include '**/*'
	includeLineRe = regexp.MustCompile(`\binclude(?:s)?\b`)
	stringLitRe   = regexp.MustCompile(`["']([^"']+)["']`)
	// jacoco, jacocoTestReport, tasks.jacocoTestReport (block headers)
	jacocoBlockRe = regexp.MustCompile(`^\s*(?:tasks\.)?jacoco\w*\b[^{]*$`)
	pluginsRe     = regexp.MustCompile(`^\s*plugins\s*$`)
	// a bare plugin name inside plugins { }, e.g. jacoco or application
	barePluginRe = regexp.MustCompile(`^\s*([a-z][\w-]*)\s*$`)
)

// ParseGradle extracts plugin declarations from a build.gradle or
// build.gradle.kts script. Settings found inside jacoco* blocks (tool
// version and include patterns) are attached to the jacoco plugin's
// configuration as <toolVersion> and <includes><include> nodes.
//
// Lines are split into statements at braces and semicolons, so one-line
// blocks such as plugins { id("jacoco") } are read like multi-line ones.
func ParseGradle(data []byte) (*Model, error) {
	p := &gradleParser{
		m:            &Model{Kind: KindGradle, Properties: map[string]string{}},
		jacocoCfg:    &Node{Name: "configuration"},
		includes:     &Node{Name: "includes"},
		jacocoDepth:  -1,
		pluginsDepth: -1,
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := stripLineComment(sc.Text())
		for {
			i := strings.IndexAny(line, "{};")
			if i < 0 {
				p.statement(line)
				break
			}
			switch line[i] {
			case '{':
				p.open(line[:i])
			case '}':
				p.statement(line[:i])
				p.close()
			default:
				p.statement(line[:i])
			}
			line = line[i+1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p.model(), nil
}

type gradleParser struct {
	m                   *Model
	jacocoCfg, includes *Node
	depth               int
	jacocoDepth         int
	pluginsDepth        int
}

// open handles a block header such as "plugins" or "jacoco".
func (p *gradleParser) open(header string) {
	switch {
	case p.pluginsDepth < 0 && pluginsRe.MatchString(header):
		p.pluginsDepth = p.depth
	case p.jacocoDepth < 0 && jacocoBlockRe.MatchString(header):
		p.jacocoDepth = p.depth
	default:
		p.statement(header)
	}
	p.depth++
}

func (p *gradleParser) close() {
	p.depth--
	if p.jacocoDepth >= 0 && p.depth <= p.jacocoDepth {
		p.jacocoDepth = -1
	}
	if p.pluginsDepth >= 0 && p.depth <= p.pluginsDepth {
		p.pluginsDepth = -1
	}
}

func (p *gradleParser) statement(st string) {
	if strings.TrimSpace(st) == "" {
		return
	}
	m := p.m
	switch {
	case p.pluginsDepth >= 0 && p.depth > p.pluginsDepth && barePluginRe.MatchString(st):
		m.Plugins = append(m.Plugins, Plugin{ArtifactID: barePluginRe.FindStringSubmatch(st)[1]})
	case pluginIDRe.MatchString(st):
		mm := pluginIDRe.FindStringSubmatch(st)
		m.Plugins = append(m.Plugins, Plugin{ArtifactID: mm[1], Version: mm[2]})
	case kotlinPluginRe.MatchString(st):
		mm := kotlinPluginRe.FindStringSubmatch(st)
		m.Plugins = append(m.Plugins, Plugin{ArtifactID: "org.jetbrains.kotlin." + mm[1], Version: mm[2]})
	case applyPluginRe.MatchString(st):
		mm := applyPluginRe.FindStringSubmatch(st)
		m.Plugins = append(m.Plugins, Plugin{ArtifactID: mm[1]})
	case groupRe.MatchString(st):
		m.GroupID = groupRe.FindStringSubmatch(st)[1]
	}

	if p.jacocoDepth < 0 {
		return
	}
	if mm := toolVersionRe.FindStringSubmatch(st); mm != nil {
		p.jacocoCfg.Children = append(p.jacocoCfg.Children, &Node{Name: "toolVersion", Text: mm[1]})
	}
	if includeLineRe.MatchString(st) {
		for _, lit := range stringLitRe.FindAllStringSubmatch(st, -1) {
			p.includes.Children = append(p.includes.Children, &Node{Name: "include", Text: lit[1]})
		}
	}
}

// model attaches the collected jacoco settings to the jacoco plugin.
func (p *gradleParser) model() *Model {
	if len(p.includes.Children) > 0 {
		p.jacocoCfg.Children = append(p.jacocoCfg.Children, p.includes)
	}
	if len(p.jacocoCfg.Children) > 0 {
		for i := range p.m.Plugins {
			if p.m.Plugins[i].ArtifactID == "jacoco" {
				p.m.Plugins[i].Configuration = p.jacocoCfg
				break
			}
		}
	}
	return p.m
}

func stripLineComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 && !strings.Contains(line[:i], `"`) {
		return line[:i]
	}
	return line
}
