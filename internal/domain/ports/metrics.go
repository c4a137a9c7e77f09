package ports

import "time"

// SuggestionMetrics records pipeline activity.
type SuggestionMetrics interface {
	SuggestionsGenerated(n int)
	SuggestionsSaved(n int)
	SuggestionsPurged(n int)
	RefreshFailed(trigger string)
	RefreshDuration(d time.Duration)
	TaskFailed(task string)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) SuggestionsGenerated(int)      {}
func (NopMetrics) SuggestionsSaved(int)          {}
func (NopMetrics) SuggestionsPurged(int)         {}
func (NopMetrics) RefreshFailed(string)          {}
func (NopMetrics) RefreshDuration(time.Duration) {}
func (NopMetrics) TaskFailed(string)             {}
