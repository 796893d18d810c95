package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// renderReport formats the results for the selected metrics. Failed
// sources were already reported on stderr and contribute no rows; the
// aggregated total row appears whenever more than one source was
// requested, matching conventional word-count behavior.
func renderReport(results []Result, summary Summary, metrics []Metric, format string) (string, error) {
	withTotal := len(results) > 1
	switch format {
	case "plain":
		return renderPlain(results, summary, metrics, withTotal), nil
	case "human":
		return renderHuman(results, summary, metrics, withTotal), nil
	case "json":
		return renderJSON(results, summary, metrics, withTotal)
	default:
		return "", fmt.Errorf("unsupported output format: %s (use plain, human, or json)", format)
	}
}

func renderPlain(results []Result, summary Summary, metrics []Metric, withTotal bool) string {
	var builder strings.Builder
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		parts := metricValues(res.Counts, metrics)
		if !res.Stdin && res.Name != "" {
			parts = append(parts, res.Name)
		}
		builder.WriteString(strings.Join(parts, " "))
		builder.WriteString("\n")
	}
	if withTotal {
		parts := append(metricValues(summary.Total, metrics), "total")
		builder.WriteString(strings.Join(parts, " "))
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderHuman(results []Result, summary Summary, metrics []Metric, withTotal bool) string {
	var builder strings.Builder
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		parts := make([]string, 0, len(metrics)+1)
		for _, m := range metrics {
			parts = append(parts, fmt.Sprintf("%s: %d", m.Label(), m.Of(res.Counts)))
		}
		if !res.Stdin && res.Name != "" {
			parts = append(parts, fmt.Sprintf("in %s", res.Name))
		}
		builder.WriteString(strings.Join(parts, " "))
		builder.WriteString("\n")
	}
	if withTotal {
		parts := make([]string, 0, len(metrics)+1)
		for _, m := range metrics {
			parts = append(parts, fmt.Sprintf("%s: %d", m.Label(), m.Of(summary.Total)))
		}
		parts = append(parts, "total")
		builder.WriteString(strings.Join(parts, " "))
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderJSON(results []Result, summary Summary, metrics []Metric, withTotal bool) (string, error) {
	rows := make([]map[string]interface{}, 0, len(results)+1)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		row := make(map[string]interface{}, len(metrics)+1)
		for _, m := range metrics {
			row[m.Key()] = m.Of(res.Counts)
		}
		if !res.Stdin && res.Name != "" {
			row["source"] = res.Name
		}
		rows = append(rows, row)
	}
	if withTotal {
		row := make(map[string]interface{}, len(metrics)+1)
		for _, m := range metrics {
			row[m.Key()] = m.Of(summary.Total)
		}
		row["type"] = "total"
		rows = append(rows, row)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding JSON report: %w", err)
	}
	return string(out) + "\n", nil
}

func metricValues(c Counts, metrics []Metric) []string {
	parts := make([]string, 0, len(metrics)+1)
	for _, m := range metrics {
		parts = append(parts, strconv.FormatInt(m.Of(c), 10))
	}
	return parts
}

// deliverReport routes the rendered report to its destination: a file
// with --output, the clipboard with --clipboard (falling back to stdout
// if the clipboard is unavailable), or stdout.
func deliverReport(report string) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		logVerbose("Report saved to %s", outputFile)
		return nil
	}
	if copyToClipboard {
		if err := clipboard.WriteAll(report); err != nil {
			fmt.Fprintf(os.Stderr, "tally: error writing to clipboard: %v\n", err)
			fmt.Print(report)
			return nil
		}
		logVerbose("Report copied to clipboard.")
		return nil
	}
	fmt.Print(report)
	return nil
}
