package renderer

import "github.com/etnz/captable"

// Validation is the data of a validation report.
type Validation struct {
	File string `json:"file,omitempty"`
	captable.ValidationResult
}

// ValidationMarkdown renders a validation result. file names the validated record,
// it may be empty.
func ValidationMarkdown(file string, res captable.ValidationResult) string {
	return renderTemplate("validation", "validation.md", nil, Validation{File: file, ValidationResult: res})
}
