// Package gitlog extracts commit events from local git repositories by
// shelling out to the git CLI.
package gitlog

import (
	"bufio"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/username/git-overtime-tracker/pkg/dateutil"
)

// Commit is one commit by the scanned author: identity and payload fields
// pass through the overtime engine untouched.
type Commit struct {
	ID            string
	Title         string
	Project       string
	Branch        string
	Date          time.Time
	Time          string
	ModifiedFiles int
	AddedLines    int
	DeletedLines  int
}

var (
	filesRe     = regexp.MustCompile(`(\d+)\s+file`)
	insertionRe = regexp.MustCompile(`(\d+)\s+insertion`)
	deletionRe  = regexp.MustCompile(`(\d+)\s+deletion`)
)

// Scan reads the full history of one repository, keeping only commits
// authored by the given email. Each commit is enriched with a containing
// branch and its diff stats. Duplicate ids (the same commit reachable from
// several refs under --all) are kept once.
func Scan(repoPath, authorEmail string) ([]Commit, error) {
	project, err := projectName(repoPath)
	if err != nil {
		return nil, err
	}

	out, err := gitOutput(repoPath, "log", "--all",
		"--author="+authorEmail,
		"--pretty=format:%H|%s|%ad",
		"--date=format:%Y-%m-%d|%H:%M")
	if err != nil {
		return nil, fmt.Errorf("git log failed in %s: %w", repoPath, err)
	}

	var commits []Commit
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}

		id := parts[0]
		if seen[id] {
			continue
		}
		seen[id] = true

		date, err := dateutil.ParseDate(parts[2])
		if err != nil {
			continue
		}

		commit := Commit{
			ID:      id,
			Title:   sanitizeField(parts[1]),
			Project: project,
			Date:    date,
			Time:    parts[3],
		}

		commit.Branch = containingBranch(repoPath, id)
		commit.ModifiedFiles, commit.AddedLines, commit.DeletedLines = diffStats(repoPath, id)

		commits = append(commits, commit)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning git log output: %w", err)
	}

	return commits, nil
}

// FindRepositories walks a folder tree and returns every directory that
// contains a .git subdirectory, without descending into the repositories
// themselves.
func FindRepositories(root string) ([]string, error) {
	var repos []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			repos = append(repos, filepath.Dir(path))
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return repos, nil
}

func projectName(repoPath string) (string, error) {
	out, err := gitOutput(repoPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %s: %w", repoPath, err)
	}
	return filepath.Base(strings.TrimSpace(out)), nil
}

// containingBranch returns the first branch that contains the commit, or ""
// when none does (detached history). Best effort: a failed lookup does not
// abort the scan.
func containingBranch(repoPath, id string) string {
	out, err := gitOutput(repoPath, "branch", "--all", "--contains", id)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
		if line != "" {
			return sanitizeField(line)
		}
	}
	return ""
}

// diffStats parses the summary line of `git show --stat` into file and line
// counters. Missing matches (merge commits, binary-only diffs) leave the
// counter at zero.
func diffStats(repoPath, id string) (files, added, deleted int) {
	out, err := gitOutput(repoPath, "show", "--stat", "--oneline", id)
	if err != nil {
		return 0, 0, 0
	}
	files = matchCount(filesRe, out)
	added = matchCount(insertionRe, out)
	deleted = matchCount(deletionRe, out)
	return files, added, deleted
}

func matchCount(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// sanitizeField strips characters that would corrupt the report: the CSV
// delimiter and surrounding quotes.
func sanitizeField(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	return strings.ReplaceAll(s, ";", ",")
}

func gitOutput(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
