package logger

// OutputCategory defines a category of CLI output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Generated file list, route tables
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputProgress // Per-language progress
	OutputFiles    // Files written with sizes

	// Level 2 (-vv)
	OutputConfig // Resolved configuration
	OutputTiming // Per-language timing

	// Level 3 (-vvv)
	OutputDeclarations // Name table and per-declaration details
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:      VerbosityUser,
	OutputErrors:       VerbosityUser,
	OutputProgress:     VerbosityInfo,
	OutputFiles:        VerbosityInfo,
	OutputConfig:       VerbosityDebug,
	OutputTiming:       VerbosityDebug,
	OutputDeclarations: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputProgress:     "progress",
	OutputFiles:        "files",
	OutputConfig:       "config",
	OutputTiming:       "timing",
	OutputDeclarations: "declarations",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories lists the names of the categories shown at verbosity,
// in category order.
func EnabledCategories(verbosity int) []string {
	var names []string
	for c := OutputResults; c <= OutputDeclarations; c++ {
		if ShouldOutput(verbosity, c) {
			names = append(names, CategoryName(c))
		}
	}
	return names
}
