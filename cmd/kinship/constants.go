package main

// Default limits for CLI commands.
const (
	DefaultImportConcurrency = 4
	MaxRationaleWidth        = 60
)

// Valid output formats.
var validOutputs = []string{"text", "json"}
