package mvndepgraph

// A ManagementEntry is a project-level declaration that overrides the version and/or scope
// of a dependency wherever it appears transitively, without itself adding the dependency.
// An empty Version or Scope means that field declares no override.
type ManagementEntry struct {
	Key     Key
	Version string
	Scope   string
}

// A ManagementIndex maps dependency identities to the project's declared management
// overrides.  It is built once per analysis from the project model and is read-only
// thereafter.
type ManagementIndex map[Key]ManagementEntry

// NewManagementIndex builds a [ManagementIndex] from the coordinates declared in a project's
// dependency-management section.  At most one entry is kept per [Key]; if the section
// declares the same identity more than once, the last declaration wins.
func NewManagementIndex(managed []Coordinate) ManagementIndex {
	ix := ManagementIndex{}
	for _, c := range managed {
		ix[c.Key()] = ManagementEntry{Key: c.Key(), Version: c.Version, Scope: c.Scope}
	}
	return ix
}

// Lookup returns the management entry for the given identity.  A missing entry means "no
// override", never an error.
func (ix ManagementIndex) Lookup(k Key) (ManagementEntry, bool) {
	e, ok := ix[k]
	return e, ok
}
