package typegen

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen/names"
	"github.com/teranos/contractgen/typegen/typemap"
)

// Generate compiles p with the selected generators.
//
// Options are checked and the program is validated before anything is emitted.
// Generators then run in parallel, each on its own name table and type mapper.
// If any step fails the error is returned and no files are: a run either
// produces every file or none.
func Generate(p *contract.Program, generators []Generator, opts Options) (*Result, error) {
	log := logger.ComponentLogger("typegen")
	start := time.Now()

	selected, err := opts.validate(generators)
	if err != nil {
		return nil, err
	}
	if err := contract.Validate(p); err != nil {
		return nil, errors.Wrapf(err, "program %s", p.Name)
	}

	filtered, excluded := Exclude(p, opts.Exclude)
	if len(excluded) > 0 {
		log.Debugw("excluded declarations",
			logger.FieldProgram, p.Name,
			logger.FieldCount, len(excluded))
	}

	cfg := EmitConfig{
		ProgramName:    p.Name,
		ErrorCodesName: opts.errorCodesName(),
	}

	// Indices are unique per goroutine, no locking needed
	files := make([][]File, len(selected))
	tables := make([]*names.Table, len(selected))

	var g errgroup.Group
	for i, gen := range selected {
		g.Go(func() error {
			out, table, err := emit(filtered, gen, opts, cfg)
			if err != nil {
				return errors.Wrapf(err, "%s generator", gen.Language())
			}
			files[i] = out
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Program:      p.Name,
		Declarations: make(map[string]int, len(selected)),
		Names:        make(map[string]*names.Table, len(selected)),
		Excluded:     excluded,
	}
	for i, gen := range selected {
		result.Files = append(result.Files, files[i]...)
		result.Declarations[gen.Language()] = tables[i].Len()
		result.Names[gen.Language()] = tables[i]
	}

	log.Infow("generated program",
		logger.FieldProgram, p.Name,
		logger.FieldCount, len(result.Files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// emit runs one generator end to end: mapper, name table, emission, preamble.
func emit(p *contract.Program, gen Generator, opts Options, cfg EmitConfig) ([]File, *names.Table, error) {
	log := logger.ComponentLogger("typegen." + gen.Language())
	start := time.Now()

	types, err := typemap.New(gen.TypeTargets(), opts.TypeOverrides)
	if err != nil {
		return nil, nil, err
	}

	policy := gen.NamePolicy()
	policy.Unmangled = append(append([]string(nil), policy.Unmangled...), opts.Unmangled...)
	table, err := names.Resolve(p, policy)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range table.Entries() {
		// bare references to this name bind to the primitive
		if types.IsPrimitive(e.Decl.DeclName()) {
			log.Warnw("declaration is shadowed by a primitive type",
				logger.FieldDeclaration, e.Qualified,
				logger.FieldEmittedName, e.Name)
		}
	}

	files, err := gen.Emit(p, table, types, cfg)
	if err != nil {
		return nil, nil, err
	}

	preamble := opts.Preambles[gen.Language()]
	for i := range files {
		files[i].Language = gen.Language()
		files[i].Content = preamble + files[i].Content
	}

	log.Debugw("emitted",
		logger.FieldLanguage, gen.Language(),
		logger.FieldCount, table.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return files, table, nil
}
