package mvndepgraph

// A Project is the declared model of the software project under analysis: its own
// coordinate, its declared dependencies, and its dependency-management section.  A Project
// is read-only for the duration of one analysis run.
type Project struct {
	// Coordinate identifies the project itself.  Its Type field is the project's
	// packaging.
	Coordinate Coordinate

	// Dependencies are the project's declared (direct) dependencies, with their declared
	// scopes.
	Dependencies []Coordinate

	// Management lists the dependency-management declarations.  See [NewManagementIndex]
	// for how duplicates are resolved.
	Management []Coordinate
}

// ManagementIndex builds the project's [ManagementIndex].
func (p *Project) ManagementIndex() ManagementIndex {
	return NewManagementIndex(p.Management)
}

// Packaging returns the project's packaging, "jar" if unspecified.
func (p *Project) Packaging() string {
	if p.Coordinate.Type == "" {
		return "jar"
	}
	return p.Coordinate.Type
}
