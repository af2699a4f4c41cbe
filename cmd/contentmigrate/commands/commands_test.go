package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/docpath"
	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/contentmigrate/internal/testutil/testutils"
)

const part1Report = "✅ Created new-content.json with updated CV data!\n" +
	"📝 Updated: Personal info, skills, stats\n" +
	"⏭️  Next: Run part 2 to update projects, timeline, education, achievements\n"

// setup runs the test from a fresh site directory holding data/content.json.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{
		config.EnvInput, config.EnvOutput, config.EnvOverwriteSet, config.EnvMetricsTextfile, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	helpers.WriteContentFixture(t, dir)
	return dir
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) exitCode() int {
	return errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(r.err)
}

func execute(ctx context.Context, args ...string) result {
	var stdout, stderr bytes.Buffer
	g := &Global{Stdout: &stdout, Stderr: &stderr}
	_, err := Execute(ctx, g, args, kong.Exit(func(int) {}))
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func run(args ...string) result {
	return execute(context.Background(), args...)
}

func TestApply_Default(t *testing.T) {
	dir := setup(t)

	res := run()
	require.NoError(t, res.err)
	require.Equal(t, part1Report, res.stdout)

	helpers.NewFileAssertions(t, dir).
		AssertFileExists("data/new-content.json").
		AssertFileContains("data/new-content.json", `"email": "omarneyfar@gmail.com",`).
		AssertFileEquals("data/content.json", helpers.ContentJSON)
}

func TestApply_ExplicitCommandAndFlags(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))

	res := run("apply", "-i", "data/content.json", "-o", "out/cv.json", "-s", "part1")
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(res.stdout, "✅ Created cv.json with updated CV data!\n"))

	doc, err := document.Load(filepath.Join(dir, "out", "cv.json"))
	require.NoError(t, err)
	phone, err := docpath.Get(doc, docpath.MustParse("globals.phone"))
	require.NoError(t, err)
	require.Equal(t, "+216 44 78 50 90", phone)
}

func TestApply_MissingInput(t *testing.T) {
	dir := setup(t)

	res := run("-i", "data/missing.json")
	require.Error(t, res.err)
	require.Equal(t, 4, res.exitCode())
	require.Empty(t, res.stdout)
	helpers.NewFileAssertions(t, dir).AssertFileNotExists("data/new-content.json")
}

func TestApply_MissingKey(t *testing.T) {
	dir := setup(t)
	doc, err := document.Parse(helpers.ContentJSON)
	require.NoError(t, err)
	require.NoError(t, docpath.Set(doc, docpath.MustParse("sections.skills.components"), []any{}))
	_, err = document.WriteFile(filepath.Join(dir, "data", "content.json"), doc, document.EncodeOptions{Indent: 2})
	require.NoError(t, err)

	res := run()
	require.Equal(t, 6, res.exitCode())
	helpers.NewFileAssertions(t, dir).AssertFileNotExists("data/new-content.json")
}

func TestApply_UnknownSet(t *testing.T) {
	setup(t)

	res := run("-s", "part2")
	require.Equal(t, 4, res.exitCode())
}

func TestApply_ConfigFile(t *testing.T) {
	dir := setup(t)
	helpers.WriteFile(t, filepath.Join(dir, "site.yaml"), []byte("output: data/cv.json\nindent: 4\n"))

	res := run("-c", "site.yaml")
	require.NoError(t, res.err)
	require.True(t, strings.HasPrefix(res.stdout, "✅ Created cv.json"))
	helpers.NewFileAssertions(t, dir).AssertFileContains("data/cv.json", "{\n    \"languages\": [")
}

func TestApply_ExplicitConfigMustExist(t *testing.T) {
	setup(t)

	res := run("-c", "missing.yaml")
	require.Equal(t, 7, res.exitCode())
}

func TestApply_MetricsTextfile(t *testing.T) {
	dir := setup(t)

	res := run("--metrics-textfile", "contentmigrate.prom")
	require.NoError(t, res.err)
	helpers.NewFileAssertions(t, dir).
		AssertFileContains("contentmigrate.prom", `contentmigrate_run_outcomes_total{outcome="success",set="part1"} 1`).
		AssertFileContains("contentmigrate.prom", `contentmigrate_overwrites_total{action="update",set="part1"} 11`)
}

func TestApply_VerboseLogsDebug(t *testing.T) {
	setup(t)

	res := run("-v")
	require.NoError(t, res.err)
	require.Contains(t, res.stderr, "Applied overwrite")
	require.Contains(t, res.stderr, "run_id=")
}

func TestPlan(t *testing.T) {
	dir := setup(t)

	res := run("plan")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	require.Len(t, lines, 11)
	require.Equal(t, "update    globals.siteName", lines[0])
	helpers.NewFileAssertions(t, dir).AssertFileNotExists("data/new-content.json")
}

func TestVerify(t *testing.T) {
	dir := setup(t)

	res := run("verify")
	require.NoError(t, res.err)
	require.Equal(t, "✅ content.json looks good\n", res.stdout)

	helpers.WriteFile(t, filepath.Join(dir, "broken.json"), []byte(`{"globals": {"siteName": {"fr": "x"}}, "sections": {}}`))
	res = run("verify", "broken.json")
	require.Equal(t, 2, res.exitCode())
	require.Equal(t, "pages: missing required key\nglobals.siteName: missing translation \"en\"\n", res.stdout)
}

func TestVerify_Output(t *testing.T) {
	setup(t)
	require.NoError(t, run().err)

	res := run("verify", "data/new-content.json")
	require.NoError(t, res.err)
}

func TestWatch(t *testing.T) {
	dir := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan result, 1)
	go func() { done <- execute(ctx, "watch") }()

	output := filepath.Join(dir, "data", "new-content.json")
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Contains(t, res.stdout, "✅ Created new-content.json")
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_OutputMustDifferFromInput(t *testing.T) {
	setup(t)

	res := run("watch", "-o", "data/content.json")
	require.Equal(t, 2, res.exitCode())
}

func TestInit(t *testing.T) {
	dir := setup(t)

	res := run("init")
	require.NoError(t, res.err)
	require.Equal(t, "Wrote configuration to contentmigrate.yaml\n", res.stdout)
	helpers.NewFileAssertions(t, dir).AssertFileContains("contentmigrate.yaml", "overwrite_set: part1")

	res = run("init")
	require.Equal(t, 7, res.exitCode())

	res = run("init", "--force")
	require.NoError(t, res.err)

	// The generated file drives the default command.
	res = run()
	require.NoError(t, res.err)
}

func TestInvalidFlag(t *testing.T) {
	setup(t)

	res := run("--bogus")
	require.Equal(t, 2, res.exitCode())
}
