package main

import (
	"fmt"
	"io"
	"strings"

	mdg "github.com/rlehane/mvndepgraph"
)

type renderFn = func(w io.Writer, root *mdg.Node, verbose bool) error

var allRenderFuncs = [...]renderFn{
	renderTree,
	renderXml,
	renderDot,
}

var allRender = map[string]*renderFn{
	"tree": &allRenderFuncs[0],
	"xml":  &allRenderFuncs[1],
	"dot":  &allRenderFuncs[2],
}

// managedMsg describes how dependency management altered (or would alter) a node.
// Returns "" for unmanaged nodes, and always "" unless verbose output is requested.
func managedMsg(n *mdg.Node, verbose bool) string {
	if !verbose || n.Managed.IsZero() {
		return ""
	}
	notes := []string{}
	if n.Managed.PreManagedVersion != "" {
		notes = append(notes, fmt.Sprintf("version managed from %v", n.Managed.PreManagedVersion))
	}
	if n.Managed.PreManagedScope != "" {
		notes = append(notes, fmt.Sprintf("scope not updated to %v", n.Managed.ManagedScope))
	}
	return hiblackf(" (%s)", strings.Join(notes, "; "))
}

func renderTree(w io.Writer, root *mdg.Node, verbose bool) error {
	var err error
	root.Walk(func(n *mdg.Node, depth int) bool {
		_, err = fmt.Fprintf(w, "%s%v%s\n", strings.Repeat("  ", depth), n.Artifact, managedMsg(n, verbose))
		return err == nil
	})
	return err
}

// xmlAttrEscape covers the characters meaningful inside a double-quoted XML
// attribute value.  Maven coordinates rarely contain any of them, but pom.xml
// files are hand-edited and garbage does slip in.
var xmlAttrEscape = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func writeXmlNode(w io.Writer, n *mdg.Node, depth int, verbose bool) error {
	indent := strings.Repeat("  ", 2*depth)
	elem := "dependency"
	if depth == 0 {
		elem = "project"
	}
	a := n.Artifact
	attrs := []string{
		fmt.Sprintf("groupId=%q", xmlAttrEscape.Replace(a.GroupID)),
		fmt.Sprintf("artifactId=%q", xmlAttrEscape.Replace(a.ArtifactID)),
		fmt.Sprintf("version=%q", xmlAttrEscape.Replace(a.Version)),
		fmt.Sprintf("type=%q", xmlAttrEscape.Replace(a.Type)),
	}
	if a.Classifier != "" {
		attrs = append(attrs, fmt.Sprintf("classifier=%q", xmlAttrEscape.Replace(a.Classifier)))
	}
	if depth > 0 {
		attrs = append(attrs, fmt.Sprintf("scope=%q", xmlAttrEscape.Replace(a.Scope)))
	}
	if verbose && n.Managed.PreManagedVersion != "" {
		attrs = append(attrs, fmt.Sprintf("premanagedVersion=%q", xmlAttrEscape.Replace(n.Managed.PreManagedVersion)))
	}
	if verbose && n.Managed.PreManagedScope != "" {
		attrs = append(attrs, fmt.Sprintf("premanagedScope=%q", xmlAttrEscape.Replace(n.Managed.PreManagedScope)))
		attrs = append(attrs, fmt.Sprintf("managedScope=%q", xmlAttrEscape.Replace(n.Managed.ManagedScope)))
	}
	if n.NumChildren() == 0 {
		_, err := fmt.Fprintf(w, "%s<%s %s/>\n", indent, elem, strings.Join(attrs, " "))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s<%s %s>\n", indent, elem, strings.Join(attrs, " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s  <dependencies>\n", indent); err != nil {
		return err
	}
	for c := range n.Children() {
		if err := writeXmlNode(w, c, depth+1, verbose); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s  </dependencies>\n", indent); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s</%s>\n", indent, elem)
	return err
}

func renderXml(w io.Writer, root *mdg.Node, verbose bool) error {
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return err
	}
	return writeXmlNode(w, root, 0, verbose)
}

func renderDot(w io.Writer, root *mdg.Node, verbose bool) error {
	var err error
	write := func(format string, args ...any) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, format, args...)
		return err == nil
	}
	write("digraph {\n")
	write("  outputorder = \"edgesfirst\";\n")
	write("  node [style=filled,fillcolor=\"white\",shape=box];\n")
	root.Walk(func(n *mdg.Node, depth int) bool {
		attrs := []string{}
		if depth == 0 {
			attrs = append(attrs, "fillcolor=\"black\"", "fontcolor=\"white\"")
		}
		if !n.Managed.IsZero() {
			attrs = append(attrs, "class=\"managed\"", "style=\"dashed\"")
		}
		if !write("  %q [%s];\n", n.Artifact.String(), strings.Join(attrs, ",")) {
			return false
		}
		for c := range n.Children() {
			if !write("  %q -> %q;\n", n.Artifact.String(), c.Artifact.String()) {
				return false
			}
		}
		return true
	})
	write("}\n")
	return err
}
