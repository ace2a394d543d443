// Package typegen compiles a contract program into client code for multiple
// target languages.
//
// # Architecture
//
// The package uses a layered design:
//  1. Language-agnostic passes (validation, exclusion, typemap, names) turn the
//     IR into immutable lookup tables
//  2. Language-specific generators (dart/, typescript/) render declarations
//     from those tables
//
// Generators never look names up on their own: a Binder resolves every type
// reference against the name table and type mapper, and ShapeOf hands the
// emitter a fully resolved view of each declaration.
//
// # Design Decisions
//
//   - Name tables are computed per language before emission and never change
//   - Deterministic output (declarations sorted by emitted name) enables CI
//     validation via `contractgen check`
//   - Exclusion is evaluated once in Generate, not per generator
//   - Generation is all-or-nothing: any error discards every generated file
//
// # Implementing a New Generator
//
//  1. Create package: typegen/<language>/generator.go
//  2. Implement the Generator interface (see below)
//  3. Add the generator to Generators() in cmd/contractgen/commands/generators.go
//  4. Add its preamble and format_command keys to config
package typegen

import (
	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
)

// Generator defines the interface for language-specific emitters.
type Generator interface {
	// Language returns the language name (e.g., "dart", "typescript")
	Language() string

	// FileExtension returns the file extension for this language (e.g., "dart", "ts")
	FileExtension() string

	// NamePolicy returns the naming rules Resolve builds this language's table with
	NamePolicy() names.Policy

	// TypeTargets names the target type for every primitive category
	TypeTargets() typemap.Targets

	// Emit renders the program. It must be a pure function of its inputs.
	Emit(program *contract.Program, table *names.Table, types *typemap.Mapper, cfg EmitConfig) ([]File, error)
}

// EmitConfig carries the per-run settings an emitter needs.
type EmitConfig struct {
	// ProgramName is used for output file names
	ProgramName string
	// ErrorCodesName is the name of nested error-code containers
	ErrorCodesName string
}

// File is one generated output file.
type File struct {
	Language string
	// Name is relative to the output directory
	Name    string
	Content string
}

// Result holds the generated files of one run, in generator order.
type Result struct {
	Program string
	Files   []File
	// Declarations is the number of declarations emitted per language
	Declarations map[string]int
	// Names is the name table each language was emitted with
	Names map[string]*names.Table
	// Excluded lists the qualified names removed by exclusion
	Excluded []string
}

// FilesFor returns the files generated for one language.
func (r *Result) FilesFor(language string) []File {
	var out []File
	for _, f := range r.Files {
		if f.Language == language {
			out = append(out, f)
		}
	}
	return out
}

// File returns the generated file with the given name.
func (r *Result) File(name string) (File, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}
