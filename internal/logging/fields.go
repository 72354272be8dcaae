package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldDialect = "dialect"
	FieldFormat  = "format"
	FieldJobs    = "jobs"
	FieldConfig  = "config"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesFailed     = "files_failed"
	FieldSections        = "sections"
	FieldObjects         = "objects"

	// Session fields.
	FieldEvent        = "event"
	FieldBibliography = "bibliography"
	FieldEntries      = "entries"
	FieldChanges      = "changes"
	FieldAxis         = "axis"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
