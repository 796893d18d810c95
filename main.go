package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Metric selection
	selectLines   bool
	selectWords   bool
	selectBytes   bool
	selectChars   bool
	selectMaxLine bool
	selectTokens  bool
	selectAll     bool

	// Filtering (directory and repository walks)
	includePatterns string
	excludePatterns string
	maxSizeBytes    int64
	maxDepth        int
	showHidden      bool
	noIgnore        bool

	// Output
	outputFormat    string
	outputFile      string
	copyToClipboard bool
	pdfOutputFile   string

	// Processing
	numThreads int
	verbose    bool

	// Token counting
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Interactive mode
	interactiveMode bool

	cfgFile string
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "tally [SOURCE...]",
	Short: "Tally counts lines, words, bytes, and characters across input sources.",
	Long: `Tally is a streaming count utility. It counts lines, words, bytes, and
characters (and optionally the longest line and LLM tokens) across files,
directories, git repositories, web URLs, and standard input, reporting
per-source counts and an aggregated total.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(run(args))
	},
}

// run is the driver: resolve sources, count each one, aggregate, render,
// and pick the exit status. Split out of the cobra Run func so deferred
// cleanup (temporary clone directories) happens before os.Exit.
func run(args []string) int {
	var err error
	if interactiveMode {
		args, err = runInteractiveFinder()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: interactive mode error: %v\n", err)
			return 1
		}
		if args == nil {
			// User aborted interactive selection.
			return 0
		}
	}
	if len(args) == 0 {
		// No sources given: read standard input.
		args = []string{"-"}
	}

	metrics := selectedMetrics()

	var tokenizer Tokenizer
	if selectTokens {
		tokenizer, err = getTokenizer()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: error initializing tokenizer: %v\n", err)
			return 1
		}
		defer tokenizer.Close()
	}

	sources, failed, cleanup := resolveSources(args)
	defer cleanup()

	results := runCounts(sources, tokenizer)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "tally: %s: %v\n", res.Name, res.Err)
		}
	}
	// Resolution failures come first so diagnostics and report rows keep
	// a stable order either way.
	results = append(failed, results...)

	summary := summarize(results)
	logVerbose("Counted %d source(s), %d failed.", summary.Sources, summary.Failed)

	if pdfOutputFile != "" {
		if err := writePDFReport(results, summary, metrics, pdfOutputFile); err != nil {
			fmt.Fprintf(os.Stderr, "tally: error generating PDF: %v\n", err)
			return 1
		}
	} else {
		report, err := renderReport(results, summary, metrics, outputFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: %v\n", err)
			return 1
		}
		if err := deliverReport(report); err != nil {
			fmt.Fprintf(os.Stderr, "tally: %v\n", err)
			return 1
		}
	}

	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// selectedMetrics resolves the metric flags into the fixed column order.
// With no selection flags the four core metrics are reported; --all
// selects the core four and composes with the extra metric flags.
func selectedMetrics() []Metric {
	if selectAll {
		selectLines, selectWords, selectBytes, selectChars = true, true, true, true
	}

	var metrics []Metric
	if selectLines {
		metrics = append(metrics, MetricLines)
	}
	if selectWords {
		metrics = append(metrics, MetricWords)
	}
	if selectBytes {
		metrics = append(metrics, MetricBytes)
	}
	if selectChars {
		metrics = append(metrics, MetricChars)
	}
	if selectMaxLine {
		metrics = append(metrics, MetricMaxLineLength)
	}
	if selectTokens {
		metrics = append(metrics, MetricTokens)
	}
	if len(metrics) == 0 {
		return []Metric{MetricLines, MetricWords, MetricBytes, MetricChars}
	}
	return metrics
}

func init() {
	cobra.OnInitialize(initConfig)

	// Metric selection
	rootCmd.Flags().BoolVarP(&selectLines, "lines", "l", false, "Print the newline counts")
	rootCmd.Flags().BoolVarP(&selectWords, "words", "w", false, "Print the word counts")
	rootCmd.Flags().BoolVarP(&selectBytes, "bytes", "c", false, "Print the byte counts")
	rootCmd.Flags().BoolVarP(&selectChars, "chars", "m", false, "Print the character counts")
	rootCmd.Flags().BoolVarP(&selectMaxLine, "max-line-length", "L", false, "Print the length of the longest line")
	rootCmd.Flags().BoolVar(&selectTokens, "tokens", false, "Print LLM token counts")
	rootCmd.Flags().BoolVarP(&selectAll, "all", "a", false, "Print all core counts (lines, words, bytes, chars)")

	// Filtering
	rootCmd.Flags().StringVarP(&includePatterns, "include", "i", "", `Patterns to include when walking directories (comma-separated, e.g. *.go,*.md)`)
	viper.BindPFlag("include", rootCmd.Flags().Lookup("include"))
	rootCmd.Flags().StringVarP(&excludePatterns, "exclude", "e", "", "Patterns to exclude when walking directories (comma-separated)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	viper.BindPFlag("default_excludes", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().Int64VarP(&maxSizeBytes, "max-size", "s", 0, "Maximum file size in bytes when walking directories (0 for no limit)")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().BoolVarP(&showHidden, "hidden", "H", false, "Count hidden files and directories")
	viper.BindPFlag("hidden", rootCmd.Flags().Lookup("hidden"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect .gitignore files")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Output
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "plain", "Output format: plain, human, or json")
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("default_format", rootCmd.Flags().Lookup("format"))
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Save the report to the specified file")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().BoolVar(&copyToClipboard, "clipboard", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save the report as a PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Processing
	rootCmd.Flags().IntVarP(&numThreads, "threads", "t", 0, "Number of worker threads for counting sources (0 for sequential)")
	viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress diagnostics to stderr")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	// Token counting
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use with --tokens: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	viper.BindPFlag("default_tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	viper.BindPFlag("default_tokenizer_model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Interactive mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Open an interactive source picker")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	viper.SetDefault("default_format", "plain")
	viper.SetDefault("max_size", 0)
	viper.SetDefault("max_depth", 0)
	viper.SetDefault("hidden", false)
	viper.SetDefault("no_ignore", false)
	viper.SetDefault("threads", 0)
	viper.SetDefault("default_tokenizer", "tiktoken")
	viper.SetDefault("default_tokenizer_model", "")
	viper.SetDefault("default_excludes", []string{})
}

// initConfig reads in the config file and TALLY_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "tally"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		logVerbose("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "tally: error reading config file: %v\n", err)
	}

	applyConfigDefaults()
}

// applyConfigDefaults copies config- and env-provided values into the
// flag globals the rest of the code reads. BindPFlag only feeds flag
// values into viper, not back, so every key has to be applied here; a
// flag given on the command line always wins.
func applyConfigDefaults() {
	flags := rootCmd.Flags()

	if !flags.Changed("exclude") {
		excludePatterns = strings.Join(viper.GetStringSlice("default_excludes"), ",")
	}
	if !flags.Changed("format") {
		if f := viper.GetString("default_format"); f != "" {
			outputFormat = f
		}
	}
	if !flags.Changed("max-size") {
		maxSizeBytes = viper.GetInt64("max_size")
	}
	if !flags.Changed("max-depth") {
		maxDepth = viper.GetInt("max_depth")
	}
	if !flags.Changed("hidden") {
		showHidden = viper.GetBool("hidden")
	}
	if !flags.Changed("no-ignore") {
		noIgnore = viper.GetBool("no_ignore")
	}
	if !flags.Changed("threads") {
		numThreads = viper.GetInt("threads")
	}
	if !flags.Changed("tokenizer") {
		if v := viper.GetString("default_tokenizer"); v != "" {
			tokenizerType = v
		}
	}
	if !flags.Changed("model") {
		tokenizerModel = viper.GetString("default_tokenizer_model")
	}
}

// logVerbose prints a progress line to stderr when --verbose is set.
// Stdout carries only the report.
func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
