package cpfs

// Hook fields on Options are optional instrumentation points, not a
// progress-reporting feature of the core engine itself (spec.md §1 lists
// progress reporting as a Non-goal of the engine). They exist so a caller
// layered on top — internal/cp's concurrent multi-root orchestration and
// its bubbletea progress bar — can observe file-level events without
// internal/cp reimplementing overwrite policy, byte copy, or timestamp
// restoration itself. Left nil, they cost nothing and change no behavior.

func (o Options) onFileStart(src, dest FSPath) {
	if o.FileStart != nil {
		o.FileStart(src.String(), dest.String())
	}
}

func (o Options) onFileDone(src FSPath, err error) {
	if o.FileDone != nil {
		o.FileDone(src.String(), err)
	}
}

func (o Options) onProgress(n int64) {
	if o.Progress != nil {
		o.Progress(n)
	}
}
