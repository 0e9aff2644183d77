package parser

// SourceAnalyzer extracts a FileRecord from raw source text. Implementations
// are heuristic by design; a grammar-aware analyzer can be substituted for
// the regex one without touching downstream graph logic.
type SourceAnalyzer interface {
	Name() string
	Analyze(path string, source []byte) (*FileRecord, error)
}
