package typegen

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/contractgen/errors"
)

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate bool
	// Differences lists files whose content differs, per language
	Differences map[string][]string
	// Missing lists generated files that do not exist in the output directory
	Missing []string
}

// CompareFiles compares freshly generated files with what is on disk in dir.
func CompareFiles(dir string, files []File) (*CheckResult, error) {
	differences := make(map[string][]string)
	var missing []string

	for _, f := range files {
		existing, err := os.ReadFile(filepath.Join(dir, f.Name))
		if os.IsNotExist(err) {
			missing = append(missing, f.Name)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", f.Name)
		}
		if !bytes.Equal(existing, []byte(f.Content)) {
			differences[f.Language] = append(differences[f.Language], f.Name)
		}
	}

	sort.Strings(missing)
	for lang := range differences {
		sort.Strings(differences[lang])
	}
	return &CheckResult{
		UpToDate:    len(differences) == 0 && len(missing) == 0,
		Differences: differences,
		Missing:     missing,
	}, nil
}

// CompareDirectories compares every file under generatedDir with the file at
// the same relative path under existingDir. Differences are reported under
// the language key "files".
func CompareDirectories(generatedDir, existingDir string) (*CheckResult, error) {
	var files []File
	err := filepath.Walk(generatedDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(generatedDir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}
		files = append(files, File{Language: "files", Name: rel, Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", generatedDir)
	}
	return CompareFiles(existingDir, files)
}
