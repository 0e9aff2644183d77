package impact

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hannajonsd/impact-analysis/graph"
)

// FileType is the change-scoring classification of a directly changed file.
// It is broader than the module registry's type: routes and styles carry
// their own weights.
type FileType string

const (
	FileService   FileType = "service"
	FileUtility   FileType = "utility"
	FileComponent FileType = "component"
	FileRoute     FileType = "route"
	FileStyle     FileType = "style"
	FileOther     FileType = "other"
)

// ClassifyFile maps a changed file to its scoring type.
func ClassifyFile(path string) FileType {
	p := filepath.ToSlash(strings.ToLower(path))

	switch strings.ToLower(filepath.Ext(p)) {
	case ".css", ".scss", ".less", ".styl", ".sass":
		return FileStyle
	}

	if strings.Contains(p, "/router/") || strings.Contains(p, "/routes/") ||
		strings.HasSuffix(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)), "router") {
		return FileRoute
	}

	switch graph.InferModuleType(path) {
	case graph.ModuleUtility:
		return FileUtility
	case graph.ModuleService:
		return FileService
	case graph.ModuleComponent, graph.ModuleView:
		return FileComponent
	}

	if strings.HasSuffix(p, ".vue") {
		return FileComponent
	}

	return FileOther
}

// Weights are the additive risk-scoring constants. The exact values are
// tuning heuristics, kept as configuration; what must hold is monotonicity:
// more usage never lowers risk.
type Weights struct {
	ComponentWeight  int `yaml:"componentWeight"`
	ModuleWeight     int `yaml:"moduleWeight"`
	CallChainWeight  int `yaml:"callChainWeight"`
	UsageWeight      int `yaml:"usageWeight"`
	UtilityUsage     int `yaml:"utilityUsage"`
	DateFormatUsage  int `yaml:"dateFormatUsage"`
	IndirectWeight   int `yaml:"indirectWeight"`
	LevelBonusLow    int `yaml:"levelBonusLow"`
	LevelBonusMedium int `yaml:"levelBonusMedium"`
	LevelBonusHigh   int `yaml:"levelBonusHigh"`
	LevelBonusCrit   int `yaml:"levelBonusCritical"`

	FileBonus map[FileType]int `yaml:"fileBonus"`

	// Score cut points mapping the total to a level.
	LowBelow    int `yaml:"lowBelow"`
	MediumBelow int `yaml:"mediumBelow"`
	HighBelow   int `yaml:"highBelow"`
}

// DefaultWeights returns the stock scoring constants.
func DefaultWeights() Weights {
	return Weights{
		ComponentWeight:  10,
		ModuleWeight:     5,
		CallChainWeight:  2,
		UsageWeight:      3,
		UtilityUsage:     5,
		DateFormatUsage:  3,
		IndirectWeight:   3,
		LevelBonusLow:    5,
		LevelBonusMedium: 15,
		LevelBonusHigh:   30,
		LevelBonusCrit:   50,
		FileBonus: map[FileType]int{
			FileService:   20,
			FileUtility:   35,
			FileComponent: 15,
			FileRoute:     10,
			FileStyle:     5,
			FileOther:     8,
		},
		LowBelow:    40,
		MediumBelow: 100,
		HighBelow:   200,
	}
}

// dateFormatPattern is the date/time-formatting heuristic: names like
// formatDateNanos or dateTimeFormat carry extra weight because formatting
// changes ripple through display code.
var dateFormatPattern = regexp.MustCompile(`(?i)(format.*(date|time|nanos))|((date|time).*format)`)

// IsDateFormatName reports whether a function name matches the date/time
// formatting heuristic.
func IsDateFormatName(name string) bool {
	return dateFormatPattern.MatchString(name)
}

// usageLevel buckets a usage count into an impact level.
func usageLevel(totalUsages int) Level {
	switch {
	case totalUsages <= 0:
		return LevelNone
	case totalUsages <= 2:
		return LevelLow
	case totalUsages <= 5:
		return LevelMedium
	case totalUsages <= 10:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// Score computes the additive weighted total for a report and maps it to a
// level. Zero changed non-excluded files forces the level to none
// regardless of score.
func (w Weights) Score(r *Report) (int, Level) {
	score := 0

	score += len(r.AffectedComponents) * w.ComponentWeight
	score += len(r.AffectedModules) * w.ModuleWeight
	score += len(r.CallChain) * w.CallChainWeight
	score += len(r.IndirectImpact) * w.IndirectWeight

	for _, fn := range r.FunctionLevelImpact {
		usageWeight := w.UsageWeight
		levelMultiplier := 1
		if fn.IsModified {
			usageWeight *= 2
			levelMultiplier = 2
		}
		score += fn.TotalUsages * usageWeight

		if graph.IsUtilityPath(fn.DefinitionFile) {
			score += fn.TotalUsages * w.UtilityUsage
		}
		if IsDateFormatName(fn.FunctionName) {
			score += fn.TotalUsages * w.DateFormatUsage
		}

		switch fn.ImpactLevel {
		case LevelCritical:
			score += w.LevelBonusCrit * levelMultiplier
		case LevelHigh:
			score += w.LevelBonusHigh * levelMultiplier
		case LevelMedium:
			score += w.LevelBonusMedium * levelMultiplier
		case LevelLow:
			score += w.LevelBonusLow * levelMultiplier
		}
	}

	for _, fi := range r.DirectImpact {
		score += w.FileBonus[fi.Type]
	}

	if len(r.DirectImpact) == 0 {
		return score, LevelNone
	}

	return score, w.levelFor(score)
}

func (w Weights) levelFor(score int) Level {
	switch {
	case score <= 0:
		return LevelNone
	case score < w.LowBelow:
		return LevelLow
	case score < w.MediumBelow:
		return LevelMedium
	case score < w.HighBelow:
		return LevelHigh
	default:
		return LevelCritical
	}
}
