package diagnostic

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"struct-mapper/internal/common"
)

// Diagnostics collects the findings of rule resolution by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic is one finding about a type pair or one of its fields.
type Diagnostic struct {
	Severity DiagnosticSeverity
	// Code is a stable identifier of the kind of finding, e.g. "unmapped_field".
	Code    string
	Message string
	// TypePair is "pkg.Source->pkg.Destination", empty for set level findings.
	TypePair string
	// FieldPath is the destination field, empty for pair level findings.
	FieldPath   string
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

var severityNames = [...]string{
	DiagnosticInfo:    "info",
	DiagnosticWarning: "warning",
	DiagnosticError:   "error",
}

func (s DiagnosticSeverity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return common.UnknownStr
	}

	return severityNames[s]
}

// Add appends diag to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

func (d *Diagnostics) AddError(code, message, typePair, fieldPath string) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, TypePair: typePair, FieldPath: fieldPath})
}

func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, TypePair: typePair, FieldPath: fieldPath})
}

func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, TypePair: typePair, FieldPath: fieldPath})
}

// Merge appends every finding of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }
func (d *Diagnostics) IsValid() bool   { return len(d.Errors) == 0 }

// All yields errors, then warnings, then infos.
func (d *Diagnostics) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
			for _, diag := range list {
				if !yield(diag) {
					return
				}
			}
		}
	}
}

// Codes returns the codes of the findings of severity s in order.
func (d *Diagnostics) Codes(s DiagnosticSeverity) []string {
	var codes []string
	for diag := range d.All() {
		if diag.Severity == s {
			codes = append(codes, diag.Code)
		}
	}

	return codes
}

// Error joins the error findings with "; ", nil when there are none.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return errors.New(strings.Join(parts, "; "))
}

// String renders "[pair] field: [code] message (did you mean a, b?)", omitting empty parts.
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.TypePair != "" {
		b.WriteString("[" + d.TypePair + "]")
	}

	if d.FieldPath != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.FieldPath)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return b.String()
}
