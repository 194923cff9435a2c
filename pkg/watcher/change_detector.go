package watcher

// ChangeAnalysis describes what a batch of changes requires from the
// next run.
type ChangeAnalysis struct {
	NeedRuleReload bool // rule config changed; reload before running
	Reason         string
	ChangedFiles   []string
}

// AnalyzeChanges maps a debounced change event to the required rerun.
// The pipeline always runs end to end, so every change means a full
// re-analysis; a config change additionally reloads the rules first.
func AnalyzeChanges(event ChangeEvent) *ChangeAnalysis {
	analysis := &ChangeAnalysis{
		ChangedFiles: event.Paths,
	}

	switch event.Type {
	case ChangeTypeRuleConfig:
		analysis.NeedRuleReload = true
		analysis.Reason = "rule configuration changed"
	case ChangeTypeSource:
		analysis.Reason = "source files changed"
	}

	return analysis
}
