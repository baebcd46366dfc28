package runner

// FileOutcome is one file's entry in a run. Exactly one of Result and Error
// is set.
type FileOutcome struct {
	Path   string
	Result *PipelineResult
	Error  error
}

// Stats counts files by what happened to them. FilesFormatted includes
// dry-run files that would change; FilesSkipped covers files left untouched
// because they changed on disk while the formatter ran.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesFormatted  int
	FilesUnchanged  int
	FilesIncomplete int
	FilesSkipped    int
	FilesErrored    int

	// EditsApplied sums replacements over every processed file.
	EditsApplied int
}

// Result holds per-file outcomes sorted by path, plus their totals.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file errored.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasIncomplete reports whether the formatter gave up on part of any file.
func (r *Result) HasIncomplete() bool {
	return r != nil && r.Stats.FilesIncomplete > 0
}

// HasChanges reports whether any file changed or, in a dry run, would.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesFormatted > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	pr := outcome.Result
	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
		return
	case pr == nil:
		return
	}

	r.Stats.FilesProcessed++
	switch {
	case pr.Skipped:
		r.Stats.FilesSkipped++
		if !pr.Modified {
			return
		}
	case pr.Modified:
		r.Stats.FilesFormatted++
	default:
		r.Stats.FilesUnchanged++
	}

	if pr.Incomplete() {
		r.Stats.FilesIncomplete++
	}
	r.Stats.EditsApplied += pr.EditsApplied()
}
