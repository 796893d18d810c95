package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the input string looks like a Git repository URL.
// Prioritizes the .git suffix or git@ prefix; plain http(s) URLs are
// ambiguous and handled as web sources.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a repository into a temporary directory and returns
// its path. The clone is shallow and single-branch: counting only ever
// reads the working tree at HEAD.
func cloneGitRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "tally-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	logVerbose("Cloning %s into %s", url, tempDir)

	opts := &git.CloneOptions{
		URL:           url,
		Depth:         1,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	}
	if verbose {
		opts.Progress = os.Stderr
	}
	_, err = git.PlainClone(tempDir, false, opts)
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}
	return tempDir, nil
}
