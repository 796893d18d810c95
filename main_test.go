package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetMetricFlags(t *testing.T) {
	t.Helper()
	oldLines, oldWords := selectLines, selectWords
	oldBytes, oldChars := selectBytes, selectChars
	oldMaxLine, oldTokens, oldAll := selectMaxLine, selectTokens, selectAll
	t.Cleanup(func() {
		selectLines, selectWords = oldLines, oldWords
		selectBytes, selectChars = oldBytes, oldChars
		selectMaxLine, selectTokens, selectAll = oldMaxLine, oldTokens, oldAll
	})
	selectLines, selectWords, selectBytes, selectChars = false, false, false, false
	selectMaxLine, selectTokens, selectAll = false, false, false
}

func TestSelectedMetricsDefaultIsAllCore(t *testing.T) {
	resetMetricFlags(t)
	assert.Equal(t, []Metric{MetricLines, MetricWords, MetricBytes, MetricChars}, selectedMetrics())
}

func TestSelectedMetricsAllFlag(t *testing.T) {
	resetMetricFlags(t)
	selectAll = true
	assert.Equal(t, []Metric{MetricLines, MetricWords, MetricBytes, MetricChars}, selectedMetrics())
}

func TestSelectedMetricsAllComposesWithExtras(t *testing.T) {
	resetMetricFlags(t)
	selectAll = true
	selectMaxLine = true
	assert.Equal(t,
		[]Metric{MetricLines, MetricWords, MetricBytes, MetricChars, MetricMaxLineLength},
		selectedMetrics())
}

func TestSelectedMetricsSingleFlags(t *testing.T) {
	tests := []struct {
		name string
		set  func()
		want []Metric
	}{
		{"lines only", func() { selectLines = true }, []Metric{MetricLines}},
		{"words only", func() { selectWords = true }, []Metric{MetricWords}},
		{"bytes only", func() { selectBytes = true }, []Metric{MetricBytes}},
		{"chars only", func() { selectChars = true }, []Metric{MetricChars}},
		{"max line length only", func() { selectMaxLine = true }, []Metric{MetricMaxLineLength}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetMetricFlags(t)
			tt.set()
			assert.Equal(t, tt.want, selectedMetrics())
		})
	}
}

func TestSelectedMetricsFixedColumnOrder(t *testing.T) {
	resetMetricFlags(t)
	// Column order does not depend on which flags were given; it is
	// always lines, words, bytes, chars, max-line-length, tokens.
	selectTokens = true
	selectChars = true
	selectLines = true
	assert.Equal(t, []Metric{MetricLines, MetricChars, MetricTokens}, selectedMetrics())
}

func TestInitConfigAppliesFileValues(t *testing.T) {
	oldExclude := excludePatterns
	oldFormat := outputFormat
	oldMaxSize := maxSizeBytes
	oldMaxDepth := maxDepth
	oldHidden := showHidden
	oldNoIgnore := noIgnore
	oldThreads := numThreads
	oldTokenizer := tokenizerType
	oldModel := tokenizerModel
	oldCfgFile := cfgFile
	t.Cleanup(func() {
		excludePatterns = oldExclude
		outputFormat = oldFormat
		maxSizeBytes = oldMaxSize
		maxDepth = oldMaxDepth
		showHidden = oldHidden
		noIgnore = oldNoIgnore
		numThreads = oldThreads
		tokenizerType = oldTokenizer
		tokenizerModel = oldModel
		cfgFile = oldCfgFile
		rootCmd.Flags().Lookup("max-depth").Changed = false
	})

	cfgFile = filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
threads = 4
hidden = true
no_ignore = true
max_size = 123
max_depth = 2
default_format = "json"
default_excludes = ["*.log", "*.tmp"]
default_tokenizer = "huggingface"
default_tokenizer_model = "gpt2"
`), 0644))

	// A flag given on the command line wins over the config file.
	require.NoError(t, rootCmd.Flags().Set("max-depth", "9"))

	initConfig()

	assert.Equal(t, 4, numThreads)
	assert.True(t, showHidden)
	assert.True(t, noIgnore)
	assert.Equal(t, int64(123), maxSizeBytes)
	assert.Equal(t, 9, maxDepth)
	assert.Equal(t, "json", outputFormat)
	assert.Equal(t, "*.log,*.tmp", excludePatterns)
	assert.Equal(t, "huggingface", tokenizerType)
	assert.Equal(t, "gpt2", tokenizerModel)
}

func TestExecuteRejectsUnknownFlag(t *testing.T) {
	rootCmd.SetArgs([]string{"--definitely-not-a-flag"})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	// main exits non-zero on this error; flag parsing fails before the
	// Run func, so nothing is counted.
	require.Error(t, rootCmd.Execute())
}

func TestMetricAccessors(t *testing.T) {
	c := Counts{Lines: 1, Words: 2, Bytes: 3, Chars: 4, MaxLineLength: 5, Tokens: 6}

	assert.Equal(t, int64(1), MetricLines.Of(c))
	assert.Equal(t, int64(2), MetricWords.Of(c))
	assert.Equal(t, int64(3), MetricBytes.Of(c))
	assert.Equal(t, int64(4), MetricChars.Of(c))
	assert.Equal(t, int64(5), MetricMaxLineLength.Of(c))
	assert.Equal(t, int64(6), MetricTokens.Of(c))

	assert.Equal(t, "lines", MetricLines.Key())
	assert.Equal(t, "max_line_length", MetricMaxLineLength.Key())
	assert.Equal(t, "max line length", MetricMaxLineLength.Label())
	assert.Equal(t, "words", MetricWords.Label())
}
