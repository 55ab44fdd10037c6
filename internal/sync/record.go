package sync

// Record is one artifact's metadata payload as the hub serves it. The
// engine treats it as an opaque key/value mapping; only a handful of well
// known fields are consulted generically, everything else is for the
// per-type helpers.
type Record map[string]any

// ID returns the artifact id, or "" when unset.
func (r Record) ID() string {
	return r.str("id")
}

// Rev returns the revision token. A non-empty rev means the artifact
// exists on the hub and a push must update rather than create.
func (r Record) Rev() string {
	return r.str("rev")
}

// Path returns the artifact path for path-addressed types.
func (r Record) Path() string {
	return r.str("path")
}

// Field returns an arbitrary string field, or "" when missing or not a
// string.
func (r Record) Field(key string) string {
	return r.str(key)
}

// Bool returns an arbitrary boolean field, false when missing.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

func (r Record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Ref identifies one artifact. At least one of ID/Path is set; Name is the
// stable derived name used for local filenames and hash entries.
type Ref struct {
	ID   string
	Path string
	Name string
}

// NameFunc derives the stable name of a record. The derivation must be
// deterministic across pull/push cycles for the same artifact.
type NameFunc func(Record) string

// NameByID names a record by its id, falling back to the "name" field and
// then the path.
func NameByID(r Record) string {
	if id := r.ID(); id != "" {
		return id
	}
	if name := r.Field("name"); name != "" {
		return name
	}
	return r.Path()
}

// NameByPath names a record by its path, falling back to id.
func NameByPath(r Record) string {
	if p := r.Path(); p != "" {
		return p
	}
	return r.ID()
}
