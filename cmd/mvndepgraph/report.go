package main

import (
	"fmt"
	"io"

	mapset "github.com/deckarep/golang-set/v2"
	mdg "github.com/rlehane/mvndepgraph"
)

// printReport writes the human-oriented classification summary.  Sections with
// nothing to say are omitted entirely, so a clean project prints a single line.
func printReport(w io.Writer, cl *mdg.Classification, verbose bool) error {
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	section := func(header string, set mapset.Set[mdg.Coordinate]) {
		if set.IsEmpty() {
			return
		}
		write("%s\n", header)
		for _, c := range mdg.SortedCoordinates(set) {
			write("   %v\n", c)
		}
	}

	if !cl.Warning {
		write("%s\n", "No dependency problems found")
		if !verbose {
			return err
		}
	}
	if verbose {
		section("Used declared dependencies found:", cl.UsedDeclared)
	}
	if !cl.UsedUndeclared.IsEmpty() {
		write("%s\n", yellowf("Used undeclared dependencies found:"))
		for _, c := range mdg.SortedCoordinates(cl.UsedUndeclared) {
			write("   %v\n", c)
			if verbose {
				for _, class := range cl.UsedUndeclaredClasses[c] {
					write("      class %s\n", class)
				}
			}
		}
	}
	section(yellowf("Unused declared dependencies found:"), cl.UnusedDeclared)
	section(yellowf("Non-test scoped test only dependencies found:"), cl.NonTestScoped)
	if verbose {
		section(hiblackf("Not-included used declared dependencies:"), cl.NotIncludedUsedDeclared)
		section(hiblackf("Not-included used undeclared dependencies:"), cl.NotIncludedUsedUndeclared)
		section(hiblackf("Not-included unused declared dependencies:"), cl.NotIncludedUnusedDeclared)
		section(hiblackf("Not-included non-test scoped dependencies:"), cl.NotIncludedNonTestScoped)
	}
	section(hiblackf("Ignored used undeclared dependencies:"), cl.IgnoredUsedUndeclared)
	section(hiblackf("Ignored unused declared dependencies:"), cl.IgnoredUnusedDeclared)
	section(hiblackf("Ignored non-test scoped dependencies:"), cl.IgnoredNonTestScoped)
	for _, ferr := range cl.FilterErrors {
		write("%s\n", yellowf("filter error: %v", ferr))
	}
	return err
}

// printXmlSnippet emits a pom.xml <dependency> element for each used-undeclared
// artifact, ready to paste into the project's dependencies section.
func printXmlSnippet(w io.Writer, cl *mdg.Classification) error {
	if cl.UsedUndeclared.IsEmpty() {
		return nil
	}
	var err error
	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	write("Add the following to your pom to correct the missing dependencies:\n\n")
	for _, c := range mdg.SortedCoordinates(cl.UsedUndeclared) {
		write("  <dependency>\n")
		write("    <groupId>%s</groupId>\n", c.GroupID)
		write("    <artifactId>%s</artifactId>\n", c.ArtifactID)
		write("    <version>%s</version>\n", c.Version)
		if c.Classifier != "" {
			write("    <classifier>%s</classifier>\n", c.Classifier)
		}
		if c.Type != "" && c.Type != "jar" {
			write("    <type>%s</type>\n", c.Type)
		}
		if c.Scope == mdg.ScopeTest {
			write("    <scope>test</scope>\n")
		}
		write("  </dependency>\n")
	}
	return err
}

// printScriptable writes one marker-prefixed line per used-undeclared artifact so
// wrapper scripts can grep the output without parsing the human report.
func printScriptable(w io.Writer, cl *mdg.Classification, marker, pomPath string) error {
	for _, c := range mdg.SortedCoordinates(cl.UsedUndeclared) {
		if _, err := fmt.Fprintf(w, "%s:%s:%s:%s:%s:%s\n",
			marker, pomPath, c.GroupID, c.ArtifactID, c.Version, c.Scope); err != nil {
			return err
		}
	}
	return nil
}
