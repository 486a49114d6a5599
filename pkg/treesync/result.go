package treesync

// Result contains information about a sync run.
type Result struct {
	DirsCreated    []string
	FilesCreated   []string
	FilesUpdated   []string
	FilesDeleted   []string
	FilesUnchanged int
	BytesCopied    int64
	Diagnostics    []Diagnostic
}

// Changes returns the number of mutating actions performed.
func (r *Result) Changes() int {
	return len(r.DirsCreated) + len(r.FilesCreated) + len(r.FilesUpdated) + len(r.FilesDeleted)
}

// Copies returns the number of files copied, new or overwritten.
func (r *Result) Copies() int {
	return len(r.FilesCreated) + len(r.FilesUpdated)
}

// HasDiagnostics reports whether any localized failure was recorded.
func (r *Result) HasDiagnostics() bool {
	return len(r.Diagnostics) > 0
}
