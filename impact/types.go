package impact

import (
	"github.com/hannajonsd/impact-analysis/usage"
)

// Level is the ordered category summarizing blast radius.
type Level string

const (
	LevelNone     Level = "none"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// rank orders levels for monotonicity checks.
func (l Level) rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	case LevelCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether l is at or above other in the level ordering.
func (l Level) AtLeast(other Level) bool {
	return l.rank() >= other.rank()
}

// ParseLevel maps a string to a Level, defaulting to none.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return Level(s)
	default:
		return LevelNone
	}
}

// FunctionImpact aggregates everything known about one modified or exposed
// function: who calls it, who imports it, and how hard it would be to
// change safely.
type FunctionImpact struct {
	FunctionName   string           `json:"functionName"`
	DefinitionFile string           `json:"definitionFile"`
	Callers        []usage.Caller   `json:"callers,omitempty"`
	Importers      []usage.Importer `json:"importers,omitempty"`
	TotalUsages    int              `json:"totalUsages"`
	ImpactLevel    Level            `json:"impactLevel"`
	IsModified     bool             `json:"isModified"`
}

// FileImpact is one directly changed, non-excluded file.
type FileImpact struct {
	File              string   `json:"file"`
	Type              FileType `json:"type"`
	ModifiedFunctions []string `json:"modifiedFunctions,omitempty"`
}

// IndirectImpact is a file affected one import hop away from a change.
type IndirectImpact struct {
	File   string `json:"file"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

// CallChainEntry is one function-definition-to-call-site edge illustrating
// how a change propagates.
type CallChainEntry struct {
	Caller   string `json:"caller"`
	Callee   string `json:"callee"`
	Function string `json:"function"`
}

// Summary is the headline block the CLI prints.
type Summary struct {
	ChangedFiles     int   `json:"changedFiles"`
	ExcludedFiles    int   `json:"excludedFiles"`
	AffectedFiles    int   `json:"affectedFiles"`
	FunctionsTracked int   `json:"functionsTracked"`
	RiskScore        int   `json:"riskScore"`
	RiskLevel        Level `json:"riskLevel"`
}

// Report is the pure, immutable output of one analysis run, serializable
// to JSON for the report renderer and the CLI.
type Report struct {
	DirectImpact        []FileImpact     `json:"directImpact"`
	IndirectImpact      []IndirectImpact `json:"indirectImpact"`
	AffectedComponents  []string         `json:"affectedComponents"`
	AffectedModules     []string         `json:"affectedModules"`
	AffectedFunctions   []string         `json:"affectedFunctions"`
	FunctionLevelImpact []FunctionImpact `json:"functionLevelImpact"`
	CallChain           []CallChainEntry `json:"callChain"`
	RiskScore           int              `json:"riskScore"`
	RiskLevel           Level            `json:"riskLevel"`
	ExcludedFiles       []string         `json:"excludedFiles"`
	Summary             Summary          `json:"summary"`
}
