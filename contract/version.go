package contract

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/contractgen/errors"
)

const (
	// DefaultSchemaVersion is assumed for documents that do not declare one
	DefaultSchemaVersion = "1.0.0"

	// SupportedSchema is the range of IR document versions this compiler reads
	SupportedSchema = ">= 1.0.0, < 2.0.0"
)

// CheckSchemaVersion verifies that an IR document version is supported.
func CheckSchemaVersion(version string) error {
	if version == "" {
		version = DefaultSchemaVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid IR schema version %q", version), errors.ErrUnsupportedSchema)
	}

	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return errors.AssertionFailedf("invalid schema constraint %s: %v", SupportedSchema, err)
	}

	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.Mark(errors.Newf("IR schema %s is outside %s", v, SupportedSchema), errors.ErrUnsupportedSchema),
			"regenerate the IR with an extractor that writes schema %s", DefaultSchemaVersion)
	}
	return nil
}
