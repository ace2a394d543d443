package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/contractgen/config"
	"github.com/teranos/contractgen/contract"
	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/internal/source"
	"github.com/teranos/contractgen/logger"
	"github.com/teranos/contractgen/typegen"
)

// buildFlags are shared by generate, check and watch.
type buildFlags struct {
	ir     string
	output string
	langs  []string
}

func (b *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.ir, "ir", "", "IR document: local path or go-getter URL (default: ir from config)")
	cmd.Flags().StringVarP(&b.output, "output", "o", "", "Output directory (default: output.dir from config)")
	cmd.Flags().StringSliceVarP(&b.langs, "lang", "l", nil, "Target languages, comma separated (default: languages from config)")
}

// project is a loaded configuration with flag overrides applied.
type project struct {
	cfg *config.Config
	// configFile is the project config file, empty when running on defaults
	configFile string
	ir         string
	outDir     string
}

// loadConfig reads the configuration the same way for every command. Config
// is reloaded on every call so watch picks up edits.
func loadConfig(ro *rootOptions) (*config.Config, string, error) {
	config.Reset()

	file := ro.configPath
	var cfg *config.Config
	var err error
	if file != "" {
		cfg, err = config.LoadFromFile(file)
	} else {
		file = config.FindProjectConfig()
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if file != "" {
		if err := config.Lint(file); err != nil {
			return nil, "", err
		}
	}
	return cfg, file, nil
}

func (b *buildFlags) project(ro *rootOptions) (*project, error) {
	cfg, file, err := loadConfig(ro)
	if err != nil {
		return nil, err
	}
	p := &project{
		cfg:        cfg,
		configFile: file,
		ir:         cfg.ResolvePath(cfg.IR),
		outDir:     cfg.ResolvePath(cfg.Output.Dir),
	}
	if b.ir != "" {
		p.ir = b.ir
	}
	if b.output != "" {
		p.outDir = b.output
	}
	if len(b.langs) > 0 {
		cfg.Languages = b.langs
	}
	logger.ComponentLogger("cli").Debugw("resolved project",
		logger.FieldSource, p.ir,
		logger.FieldDir, p.outDir,
		"languages", cfg.Languages)
	return p, nil
}

// program fetches and decodes the IR document.
func (p *project) program(ctx context.Context) (*contract.Program, error) {
	src, err := source.Resolve(ctx, p.ir)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	prog, err := contract.LoadFile(src.Path)
	if err != nil {
		return nil, err
	}
	if p.cfg.ProgramName != "" {
		prog.Name = p.cfg.ProgramName
	}
	return prog, nil
}

func (p *project) compile(ctx context.Context) (*typegen.Result, error) {
	prog, err := p.program(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := typegen.Generate(prog, Generators(), p.cfg.Options())
	if err != nil {
		return nil, err
	}
	logger.LoggerFromContext(ctx).Named("cli").Infow("compiled program",
		logger.FieldProgram, prog.Name,
		logger.FieldCount, len(result.Files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// write stores result under dir and runs each language's format command on
// its files.
func (p *project) write(ctx context.Context, dir string, result *typegen.Result) ([]string, error) {
	written, err := typegen.WriteFiles(dir, result.Files)
	if err != nil {
		return nil, err
	}
	for _, lang := range languagesOf(result) {
		command := p.cfg.Language(lang).FormatCommand
		if command == "" {
			continue
		}
		var paths []string
		for _, f := range result.FilesFor(lang) {
			paths = append(paths, filepath.Join(dir, f.Name))
		}
		if err := typegen.FormatFiles(ctx, command, paths); err != nil {
			return written, errors.Wrapf(err, "failed to format %s output", lang)
		}
	}
	return written, nil
}

// languagesOf lists the languages of result's files in output order.
func languagesOf(result *typegen.Result) []string {
	var langs []string
	seen := make(map[string]bool)
	for _, f := range result.Files {
		if !seen[f.Language] {
			seen[f.Language] = true
			langs = append(langs, f.Language)
		}
	}
	return langs
}
