package runner

import (
	"github.com/samber/lo"

	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/document"
)

// FileOutcome is the result for one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil when Error is set.
	Result *analysis.Result

	// Error is a read or parse failure. Parse failures are *analysis.ParseError.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	FilesFailed     int

	// Sections and Subsections count outline headings across all files.
	Sections    int
	Subsections int

	// Objects counts objects across all files by kind.
	Objects map[document.ObjectKind]int

	// Entries counts bibliography entries across all files.
	Entries int
}

// ObjectsTotal returns the number of objects of every kind.
func (s Stats) ObjectsTotal() int {
	return lo.Sum(lo.Values(s.Objects))
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed to parse or read.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// Failed returns the outcomes that carry an error.
func (r *Result) Failed() []FileOutcome {
	if r == nil {
		return nil
	}
	return lo.Filter(r.Files, func(outcome FileOutcome, _ int) bool {
		return outcome.Error != nil
	})
}

func newStats() Stats {
	return Stats{Objects: make(map[document.ObjectKind]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil || outcome.Result == nil {
		r.Stats.FilesFailed++
		return
	}
	r.Stats.FilesParsed++
	r.Stats.Entries += len(outcome.Result.Entries)

	doc := outcome.Result.Document
	if doc == nil {
		return
	}
	sections := doc.Sections()
	r.Stats.Sections += len(sections)
	r.Stats.Subsections += lo.SumBy(sections, func(s *document.Section) int {
		return lo.CountBy(s.Items, func(item document.Item) bool {
			return item.Subsection != nil
		})
	})
	for kind, n := range doc.Counts() {
		r.Stats.Objects[kind] += n
	}
}
