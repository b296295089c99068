// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Document fields.
	FieldVersion  = "version"
	FieldPosition = "position"
	FieldSymbols  = "symbols"
	FieldStrings  = "strings"
	FieldComments = "comments"
	FieldKeyword  = "keyword"
	FieldID       = "id"

	// Run fields.
	FieldJobs            = "jobs"
	FieldFilesDiscovered = "files_discovered"
	FieldFilesParsed     = "files_parsed"
	FieldFilesTruncated  = "files_truncated"
	FieldUnresolved      = "unresolved"
	FieldConfig          = "config"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
