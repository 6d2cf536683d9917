package rendering

import "fmt"

// TemplateError reports a template that could not be read, parsed or executed
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := e.Message
	if e.Template != "" {
		msg = fmt.Sprintf("%s (%s)", e.Message, e.Template)
	}
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", msg, e.Cause)
	}
	return "template error: " + msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// SectionError reports a preview section whose block failed to render
type SectionError struct {
	Section string
	Cause   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("failed to render section %s: %v", e.Section, e.Cause)
}

func (e *SectionError) Unwrap() error {
	return e.Cause
}
