package parser

// AnalysisResult is the non-throwing counterpart of ParseString: instead of
// an error return it reports success or failure as data, for callers that
// route diagnostics rather than abort on them.
type AnalysisResult struct {
	Valid  bool
	Script *Script
	Err    error
}

// Analyze parses sql and packages the outcome. Err is the same
// *lexer.LexError or *ParseError that ParseString would return, carrying the
// exact failure position.
func Analyze(sql string) *AnalysisResult {
	script, err := ParseString(sql)
	if err != nil {
		return &AnalysisResult{Err: err}
	}
	return &AnalysisResult{Valid: true, Script: script}
}
