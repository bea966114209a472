package mvndepgraph

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Descriptor is the YAML project-descriptor document consumed by the command-line tool.
// It supplies everything an analysis run needs without a live repository or bytecode
// scanner: the project model, the raw (pre-normalization) dependency graph, and the usage
// evidence.  A *Descriptor therefore implements both [Resolver] and [UsageAnalyzer].
//
// Coordinates can be written either as "group:artifact:version[:type[:classifier[:scope]]]"
// strings (see [ParseCoordinate]) or as mappings with group/artifact/version/type/
// classifier/scope keys.
//
// The raw graph is a flat node list so that shared subtrees and even cycles can be
// expressed:
//
//	graph:
//	  root: app
//	  nodes:
//	    - id: app
//	      coordinate: com.example:app:1.0
//	      children: [a, b]
//	    - id: a
//	      coordinate: org.example:a:1.0
//	    - id: b
//	      coordinate: org.example:b:2.0
//	      scope: test
//
// If the graph section is omitted, resolving synthesizes a flat raw graph from the declared
// dependencies.
type Descriptor struct {
	Project      descriptorProject  `yaml:"project"`
	Dependencies []coordinateYAML   `yaml:"dependencies"`
	Management   []coordinateYAML   `yaml:"management"`
	Graph        descriptorGraph    `yaml:"graph"`
	Evidence     descriptorEvidence `yaml:"evidence"`
}

type descriptorProject struct {
	Group     string `yaml:"group"`
	Artifact  string `yaml:"artifact"`
	Version   string `yaml:"version"`
	Packaging string `yaml:"packaging"`
}

type descriptorGraph struct {
	Root  string           `yaml:"root"`
	Nodes []descriptorNode `yaml:"nodes"`
}

type descriptorNode struct {
	ID         string         `yaml:"id"`
	Coordinate coordinateYAML `yaml:"coordinate"`
	Scope      string         `yaml:"scope"`
	Children   []string       `yaml:"children"`
}

type descriptorEvidence struct {
	UsedDeclared   []coordinateYAML           `yaml:"used-declared"`
	UsedUndeclared []descriptorUsedUndeclared `yaml:"used-undeclared"`
	UnusedDeclared []coordinateYAML           `yaml:"unused-declared"`
	NonTestScoped  []coordinateYAML           `yaml:"non-test-scoped"`
}

type descriptorUsedUndeclared struct {
	Coordinate coordinateYAML `yaml:"coordinate"`
	Classes    []string       `yaml:"classes"`
}

// coordinateYAML decodes a [Coordinate] from either a scalar coordinate string or a mapping.
type coordinateYAML struct {
	Coordinate
}

func (c *coordinateYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		cc, err := ParseCoordinate(s)
		if err != nil {
			return err
		}
		c.Coordinate = cc
		return nil
	}
	var m struct {
		Group      string `yaml:"group"`
		Artifact   string `yaml:"artifact"`
		Version    string `yaml:"version"`
		Type       string `yaml:"type"`
		Classifier string `yaml:"classifier"`
		Scope      string `yaml:"scope"`
	}
	if err := value.Decode(&m); err != nil {
		return err
	}
	cc := NewCoordinate(m.Group, m.Artifact, m.Version)
	if m.Type != "" {
		cc.Type = m.Type
	}
	cc.Classifier = m.Classifier
	if m.Scope != "" {
		cc.Scope = m.Scope
	}
	if err := cc.Check(); err != nil {
		return fmt.Errorf("line %v: %w", value.Line, err)
	}
	c.Coordinate = cc
	return nil
}

// LoadDescriptor reads and decodes a project descriptor.  Unknown document fields are
// rejected.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescriptor(data)
}

// ParseDescriptor decodes a project descriptor from its YAML serialization.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	d := &Descriptor{}
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("decoding project descriptor: %w", err)
	}
	if d.Project.Group == "" || d.Project.Artifact == "" {
		return nil, fmt.Errorf("project descriptor: project group and artifact are required")
	}
	return d, nil
}

// ToProject converts the descriptor's project section to the [Project] model.  The project
// coordinate's Type is the packaging ("jar" if unspecified).
func (d *Descriptor) ToProject() *Project {
	c := NewCoordinate(d.Project.Group, d.Project.Artifact, d.Project.Version)
	c.Scope = ""
	if d.Project.Packaging != "" {
		c.Type = d.Project.Packaging
	}
	p := &Project{Coordinate: c}
	for _, dep := range d.Dependencies {
		p.Dependencies = append(p.Dependencies, dep.Coordinate)
	}
	for _, m := range d.Management {
		p.Management = append(p.Management, m.Coordinate)
	}
	return p
}

// Resolve implements [Resolver] from the descriptor's graph section.  Shared children and
// cyclic references are preserved as declared; downstream passes are responsible for
// breaking them.
func (d *Descriptor) Resolve(_ context.Context, project *Project) (*Node, error) {
	if len(d.Graph.Nodes) == 0 {
		// No raw graph declared: synthesize one from the declared dependencies.
		root := NewNode(project.Coordinate)
		for _, dep := range project.Dependencies {
			root.AddChild(NewNode(dep))
		}
		return root, nil
	}
	if d.Graph.Root == "" {
		return nil, fmt.Errorf("graph: root is required when nodes are declared")
	}
	nodes := map[string]*Node{}
	for _, dn := range d.Graph.Nodes {
		if dn.ID == "" {
			return nil, fmt.Errorf("graph: node without id")
		}
		if _, ok := nodes[dn.ID]; ok {
			return nil, fmt.Errorf("graph: duplicate node id %q", dn.ID)
		}
		c := dn.Coordinate.Coordinate
		if dn.Scope != "" {
			c.Scope = dn.Scope
		}
		nodes[dn.ID] = NewNode(c)
	}
	for _, dn := range d.Graph.Nodes {
		for _, childID := range dn.Children {
			child, ok := nodes[childID]
			if !ok {
				return nil, fmt.Errorf("graph: node %q references unknown child %q", dn.ID, childID)
			}
			nodes[dn.ID].AddChild(child)
		}
	}
	root, ok := nodes[d.Graph.Root]
	if !ok {
		return nil, fmt.Errorf("graph: unknown root %q", d.Graph.Root)
	}
	return root, nil
}

// Analyze implements [UsageAnalyzer] from the descriptor's evidence section.
func (d *Descriptor) Analyze(_ context.Context, _ *Project) (Evidence, error) {
	ev := Evidence{UsedUndeclared: map[Coordinate][]string{}}
	for _, c := range d.Evidence.UsedDeclared {
		ev.UsedDeclared = append(ev.UsedDeclared, c.Coordinate)
	}
	for _, uu := range d.Evidence.UsedUndeclared {
		ev.UsedUndeclared[uu.Coordinate.Coordinate] = append([]string(nil), uu.Classes...)
	}
	for _, c := range d.Evidence.UnusedDeclared {
		ev.UnusedDeclared = append(ev.UnusedDeclared, c.Coordinate)
	}
	for _, c := range d.Evidence.NonTestScoped {
		ev.NonTestScoped = append(ev.NonTestScoped, c.Coordinate)
	}
	return ev, nil
}
