package gitlog

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "fix login bug", "fix login bug"},
		{"delimiter replaced", "fix; then refactor", "fix, then refactor"},
		{"quotes stripped", `add "magic" flag`, "add magic flag"},
		{"both", `"a;b"`, "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeField(tt.input); got != tt.want {
				t.Errorf("sanitizeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiffStatRegexes(t *testing.T) {
	statOutput := `abc1234 fix parser
 3 files changed, 42 insertions(+), 7 deletions(-)`

	assert.Equal(t, 3, matchCount(filesRe, statOutput))
	assert.Equal(t, 42, matchCount(insertionRe, statOutput))
	assert.Equal(t, 7, matchCount(deletionRe, statOutput))
}

func TestDiffStatRegexesSingular(t *testing.T) {
	statOutput := `def5678 tiny tweak
 1 file changed, 1 insertion(+)`

	assert.Equal(t, 1, matchCount(filesRe, statOutput))
	assert.Equal(t, 1, matchCount(insertionRe, statOutput))
	assert.Equal(t, 0, matchCount(deletionRe, statOutput), "no deletions line")
}

// initTestRepo builds a throwaway repository with two commits by the scanned
// author and one by somebody else.
func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	run := func(env []string, args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run(nil, "init")
	run(nil, "config", "user.email", "dev@example.com")
	run(nil, "config", "user.name", "Dev")

	writeFile := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	dates := []string{
		"2025-05-05T07:30:00",
		"2025-05-05T18:45:00",
	}
	for i, date := range dates {
		writeFile("file.txt", date)
		run(nil, "add", ".")
		run([]string{
			"GIT_AUTHOR_DATE=" + date,
			"GIT_COMMITTER_DATE=" + date,
		}, "commit", "-m", "work commit "+string(rune('a'+i)))
	}

	// Commit by another author, must be filtered out.
	writeFile("other.txt", "x")
	run(nil, "add", ".")
	run([]string{
		"GIT_AUTHOR_EMAIL=other@example.com",
		"GIT_AUTHOR_DATE=2025-05-06T10:00:00",
		"GIT_COMMITTER_DATE=2025-05-06T10:00:00",
	}, "commit", "-m", "other work")

	return dir
}

func TestScan(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := initTestRepo(t)

	commits, err := Scan(dir, "dev@example.com")
	require.NoError(t, err)
	require.Len(t, commits, 2, "only the scanned author's commits")

	for _, c := range commits {
		assert.Equal(t, filepath.Base(dir), c.Project)
		assert.Equal(t, "2025-05-05", c.Date.Format("2006-01-02"))
		assert.NotEmpty(t, c.ID)
		assert.Contains(t, c.Title, "work commit")
		assert.Len(t, c.Time, 5, "HH:MM")
	}
}

func TestScanNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	_, err := Scan(t.TempDir(), "dev@example.com")
	assert.Error(t, err)
}

func TestFindRepositories(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	root := t.TempDir()
	repoA := filepath.Join(root, "a")
	repoB := filepath.Join(root, "nested", "b")
	for _, dir := range []string{repoA, repoB, filepath.Join(root, "plain")} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	for _, dir := range []string{repoA, repoB} {
		cmd := exec.Command("git", "init")
		cmd.Dir = dir
		require.NoError(t, cmd.Run())
	}

	repos, err := FindRepositories(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{repoA, repoB}, repos)
}
