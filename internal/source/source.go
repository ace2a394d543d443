// Package source resolves where an IR document is read from.
package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/contractgen/errors"
	"github.com/teranos/contractgen/logger"
)

// Source is a resolved IR document location.
type Source struct {
	// Path is the local file to read
	Path string
	// Input is the location as the user wrote it
	Input string
	// Remote sources were downloaded to a temporary directory
	Remote  bool
	cleanup func()
}

// Close removes downloaded files. It is safe to call more than once.
func (s *Source) Close() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Resolve turns input into a local file using go-getter detection.
// Supports:
//   - Local paths: /path/to/ir.yaml, ./ir.yaml, ~/contracts/ir.yaml
//   - file:// URLs
//   - Anything go-getter fetches: https URLs, git::, s3::, gcs:: sources
//
// The returned Source must be closed when done.
func Resolve(ctx context.Context, input string) (*Source, error) {
	if strings.TrimSpace(input) == "" {
		return nil, errors.WithHint(
			errors.MarkInvalidConfig("no IR document given"),
			"pass --ir or set ir in contractgen.toml")
	}

	expanded := input
	if strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to expand home directory")
		}
		expanded = filepath.Join(home, expanded[2:])
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(expanded, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to detect source type of %s", input), errors.ErrInvalidConfig)
	}
	logger.ComponentLogger("source").Debugw("go-getter detected source",
		logger.FieldSource, input,
		"detected", detected)

	u, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse detected URL")
	}
	if u.Scheme == "file" || u.Scheme == "" {
		local := expanded
		if u.Scheme == "file" {
			local = u.Path
		}
		if !filepath.IsAbs(local) {
			local = filepath.Join(pwd, local)
		}
		info, err := os.Stat(local)
		if err != nil {
			return nil, errors.Wrapf(err, "IR document %s", input)
		}
		if info.IsDir() {
			return nil, errors.MarkInvalidConfig("IR document %s is a directory", input)
		}
		return &Source{Path: local, Input: input}, nil
	}

	return fetch(ctx, input, detected)
}

func fetch(ctx context.Context, input, detected string) (*Source, error) {
	log := logger.ComponentLogger("source")

	tempDir, err := os.MkdirTemp("", "contractgen-ir-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	dst := filepath.Join(tempDir, fileName(detected))

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	log.Infow("fetching IR document",
		logger.FieldSource, input,
		logger.FieldFile, dst)

	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(err, "failed to fetch %s", input)
	}
	return &Source{
		Path:    dst,
		Input:   input,
		Remote:  true,
		cleanup: func() { os.RemoveAll(tempDir) },
	}, nil
}

// fileName picks a local name for a downloaded document, keeping its extension.
func fileName(detected string) string {
	raw := detected
	if _, rest, ok := strings.Cut(raw, "::"); ok {
		raw = rest
	}
	if u, err := url.Parse(raw); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "ir.yaml"
}
