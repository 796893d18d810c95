package main

// Counts holds the metrics gathered in one streaming pass over a single
// input source. All fields are totals except MaxLineLength, which is the
// character length of the longest line seen.
type Counts struct {
	Lines         int64 `json:"lines"`
	Words         int64 `json:"words"`
	Bytes         int64 `json:"bytes"`
	Chars         int64 `json:"chars"`
	MaxLineLength int64 `json:"max_line_length"`
	Tokens        int64 `json:"tokens"`
}

// Add folds other into c. Count fields sum; MaxLineLength keeps the larger
// of the two, since the longest line across a group of sources is the
// longest line of any one of them.
func (c *Counts) Add(other Counts) {
	c.Lines += other.Lines
	c.Words += other.Words
	c.Bytes += other.Bytes
	c.Chars += other.Chars
	c.Tokens += other.Tokens
	if other.MaxLineLength > c.MaxLineLength {
		c.MaxLineLength = other.MaxLineLength
	}
}

// Result pairs the counts for one source with its display name. Stdin is
// flagged separately because it prints without a name column. Err records
// a failure to open or read the source; a Result with Err set carries no
// usable counts.
type Result struct {
	Name   string
	Stdin  bool
	Counts Counts
	Err    error
}

// Summary holds the aggregated view across all processed sources.
type Summary struct {
	Total   Counts
	Sources int
	Failed  int
}

// summarize folds all successful results into a Summary.
func summarize(results []Result) Summary {
	var s Summary
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
			continue
		}
		s.Sources++
		s.Total.Add(res.Counts)
	}
	return s
}

// Metric identifies one reportable column. The declaration order is the
// column order in every output format.
type Metric int

const (
	MetricLines Metric = iota
	MetricWords
	MetricBytes
	MetricChars
	MetricMaxLineLength
	MetricTokens
)

// Key returns the identifier used for JSON output.
func (m Metric) Key() string {
	switch m {
	case MetricLines:
		return "lines"
	case MetricWords:
		return "words"
	case MetricBytes:
		return "bytes"
	case MetricChars:
		return "chars"
	case MetricMaxLineLength:
		return "max_line_length"
	case MetricTokens:
		return "tokens"
	}
	return "unknown"
}

// Label returns the name used for human-readable output.
func (m Metric) Label() string {
	if m == MetricMaxLineLength {
		return "max line length"
	}
	return m.Key()
}

// Of extracts this metric's value from a set of counts.
func (m Metric) Of(c Counts) int64 {
	switch m {
	case MetricLines:
		return c.Lines
	case MetricWords:
		return c.Words
	case MetricBytes:
		return c.Bytes
	case MetricChars:
		return c.Chars
	case MetricMaxLineLength:
		return c.MaxLineLength
	case MetricTokens:
		return c.Tokens
	}
	return 0
}
