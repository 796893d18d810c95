package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/monochromegane/go-gitignore"
)

// Source is one concrete input to count: a local file, standard input, or
// pre-fetched content (web pages). Exactly one of path/data/stdin is the
// byte provider.
type Source struct {
	Name  string // display name in the report
	Path  string // local file path, when reading from disk
	Data  []byte // pre-loaded content, when already fetched
	Stdin bool
}

// resolveSources expands command-line arguments into concrete sources.
// Files map one-to-one, directories are walked, git URLs are cloned into
// a temporary directory and walked, web URLs are fetched. Arguments that
// fail to resolve are reported on stderr and recorded as failed results
// so the run can continue and still exit non-zero.
//
// The returned cleanup removes any temporary clone directories and must
// be called before the process exits.
func resolveSources(args []string) (sources []Source, failed []Result, cleanup func()) {
	var tempDirs []string
	cleanup = func() {
		for _, dir := range tempDirs {
			logVerbose("Removing temporary directory: %s", dir)
			_ = os.RemoveAll(dir)
		}
	}

	for _, arg := range args {
		switch {
		case arg == "-":
			sources = append(sources, Source{Stdin: true})

		case isWebURL(arg):
			src, err := fetchWebSource(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tally: %s: %v\n", arg, err)
				failed = append(failed, Result{Name: arg, Err: err})
				continue
			}
			sources = append(sources, src)

		case isGitURL(arg):
			tempDir, err := cloneGitRepo(arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tally: %s: %v\n", arg, err)
				failed = append(failed, Result{Name: arg, Err: err})
				continue
			}
			tempDirs = append(tempDirs, tempDir)
			walked, err := walkDirectory(tempDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tally: %s: %v\n", arg, err)
				failed = append(failed, Result{Name: arg, Err: err})
				continue
			}
			// Report cloned files relative to the repository, not the
			// temp dir they happen to live in.
			for _, src := range walked {
				if rel, err := filepath.Rel(tempDir, src.Path); err == nil {
					src.Name = filepath.ToSlash(rel)
				}
				sources = append(sources, src)
			}

		default:
			info, err := os.Stat(arg)
			if err == nil && info.IsDir() {
				walked, err := walkDirectory(arg)
				if err != nil {
					fmt.Fprintf(os.Stderr, "tally: %s: %v\n", arg, err)
					failed = append(failed, Result{Name: arg, Err: err})
					continue
				}
				sources = append(sources, walked...)
				continue
			}
			// Plain file, or a stat failure: either way the open in
			// countSource surfaces the real error per-source.
			sources = append(sources, Source{Name: arg, Path: arg})
		}
	}
	return sources, failed, cleanup
}

// walkDirectory collects one source per kept file under root, applying
// the filter stack: .gitignore (unless --no-ignore), hidden entries
// (unless --hidden), exclude then include globs, max depth, and max size.
func walkDirectory(root string) ([]Source, error) {
	var sources []Source
	var ignoreMatcher gitignore.IgnoreMatcher

	parsedIncludes := parsePatterns(includePatterns)
	parsedExcludes := parsePatterns(excludePatterns)

	if !noIgnore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tally: warning: could not parse %s: %v\n", gitIgnorePath, err)
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: warning: %s: %v\n", path, err)
			return nil
		}
		if path == root {
			return nil
		}

		baseName := d.Name()
		isDir := d.IsDir()

		if !showHidden && isHidden(baseName) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if ignoreMatcher != nil && ignoreMatcher.Match(relPath, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if maxDepth > 0 && countPathSeparators(relPath) >= maxDepth {
			if isDir {
				return fs.SkipDir
			}
		}

		excluded, err := matchesAnyPattern(baseName, parsedExcludes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: warning: %s: %v\n", path, err)
		}
		if isDir {
			if excluded {
				return fs.SkipDir
			}
			return nil
		}
		if excluded {
			return nil
		}

		if len(parsedIncludes) > 0 {
			included, err := matchesAnyPattern(baseName, parsedIncludes)
			if err != nil {
				fmt.Fprintf(os.Stderr, "tally: warning: %s: %v\n", path, err)
			}
			if !included {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "tally: warning: %s: %v\n", path, err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if maxSizeBytes > 0 && info.Size() > maxSizeBytes {
			logVerbose("Skipping %s: larger than %d bytes", path, maxSizeBytes)
			return nil
		}

		sources = append(sources, Source{Name: path, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return sources, nil
}

// parsePatterns splits a comma-separated string of glob patterns.
func parsePatterns(patterns string) []string {
	if patterns == "" {
		return nil
	}
	return strings.Split(patterns, ",")
}

// matchesAnyPattern reports whether name matches any of the glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden reports whether a base name is a dotfile ('.' and '..' are not).
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}

// countPathSeparators counts separators in a slash-normalized relative path.
func countPathSeparators(path string) int {
	path = filepath.ToSlash(path)
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(strings.Trim(path, "/"), "/")
}

// countSource runs one streaming pass over a single source. When a
// tokenizer is supplied the content is buffered so the token metric can
// see the full text; otherwise files stream straight through the counter.
func countSource(src Source, tk Tokenizer) Result {
	res := Result{Name: src.Name, Stdin: src.Stdin}

	data := src.Data
	if data == nil && src.Stdin {
		if tk == nil {
			counts, err := countReader(os.Stdin)
			if err != nil {
				res.Err = fmt.Errorf("error reading standard input: %w", err)
				return res
			}
			res.Counts = counts
			return res
		}
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			res.Err = fmt.Errorf("error reading standard input: %w", err)
			return res
		}
	}

	if data != nil {
		counts, err := countReader(bytes.NewReader(data))
		if err != nil {
			res.Err = err
			return res
		}
		if tk != nil {
			counts.Tokens = int64(tk.CountTokens(string(data)))
		}
		res.Counts = counts
		return res
	}

	if tk != nil {
		content, err := os.ReadFile(src.Path)
		if err != nil {
			res.Err = err
			return res
		}
		counts, err := countReader(bytes.NewReader(content))
		if err != nil {
			res.Err = err
			return res
		}
		counts.Tokens = int64(tk.CountTokens(string(content)))
		res.Counts = counts
		return res
	}

	f, err := os.Open(src.Path)
	if err != nil {
		res.Err = err
		return res
	}
	defer f.Close()

	counts, err := countReader(f)
	if err != nil {
		res.Err = fmt.Errorf("error reading %s: %w", src.Path, err)
		return res
	}
	res.Counts = counts
	return res
}

// runCounts counts every source, sequentially by default. With --threads
// a worker pool counts file and pre-fetched sources concurrently; results
// land in their argument-order slot so output and totals are identical to
// a sequential run.
//
// Standard input is always read on the caller, and read exactly once: a
// repeated "-" argument reuses the counts from the first read instead of
// reporting zeros from an exhausted stream.
func runCounts(sources []Source, tk Tokenizer) []Result {
	results := make([]Result, len(sources))

	workers := numThreads
	pooled := workers > 1 && len(sources) >= 2

	var jobs chan int
	var wg sync.WaitGroup
	if pooled {
		logVerbose("Using %d worker(s) for counting.", workers)
		jobs = make(chan int, len(sources))
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = countSource(sources[i], tk)
				}
			}()
		}
	}

	stdinIdx := -1
	for i, src := range sources {
		if src.Stdin {
			if stdinIdx >= 0 {
				results[i] = results[stdinIdx]
				continue
			}
			stdinIdx = i
			results[i] = countSource(src, tk)
			continue
		}
		if pooled {
			jobs <- i
		} else {
			results[i] = countSource(src, tk)
		}
	}
	if pooled {
		close(jobs)
		wg.Wait()
	}
	return results
}
