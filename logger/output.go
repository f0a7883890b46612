package logger

// Output controls what categories of information the CLI prints at each
// verbosity level. Log levels filter by severity; output categories filter
// by kind of information, whatever its severity.
//
// Verbosity Levels:
//
//	0 (default) - results, errors with hints, final status
//	1 (-v)      - + files written, per-stage summaries
//	2 (-vv)     - + timing, which configuration file was used
//	3 (-vvv)    - + internal operation flow

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Command results
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputFiles         // Output files written
	OutputOperationInfo // Per-stage summaries

	// Level 2 (-vv) - Detailed
	OutputTiming // Run duration
	OutputConfig // Configuration file and sources

	// Level 3 (-vvv) - Trace
	OutputInternalOp // Internal operation flow
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputFiles:         VerbosityInfo,
	OutputOperationInfo: VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,

	OutputInternalOp: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:       "results",
	OutputErrors:        "errors",
	OutputUserStatus:    "status",
	OutputFiles:         "files",
	OutputOperationInfo: "operation-info",
	OutputTiming:        "timing",
	OutputConfig:        "config",
	OutputInternalOp:    "internal",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, and files written"
	case VerbosityDebug:
		return "above + timing and configuration details"
	default:
		if verbosity >= VerbosityTrace {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
