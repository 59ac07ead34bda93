package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vainstains/comicdata/internal/inspect"
)

const projectCSV = "id,arc_number,title\n1,3.5,\"Say \"\"Hi\"\"\"\n2,N/A,Plain\n"

const projectTemplate = "// @version 1.0\n(function() {\n// <COMIC_DATA>\nconst comicData = [];\n// </COMIC_DATA>\n})();\n"

const projectLiteral = "const comicData = [\n" +
	`    {id: "1", arc_number: "4", title: "Say \"Hi\""},` + "\n" +
	`    {id: "2", arc_number: "-1", title: "Plain"}` + "\n" +
	"];"

// newProject lays out the conventional directories under a temp root.
func newProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "generator_stuff"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "userscripts_base"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "generator_stuff", "housepets_comics.csv"), []byte(projectCSV), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "userscripts_base", "helper.js"), []byte(projectTemplate), 0o600))

	return root
}

func projectArgs(root string, cmd ...string) []string {
	return append(cmd,
		"--log-level", "error",
		"--csv", filepath.Join(root, "generator_stuff", "housepets_comics.csv"),
		"--output-dir", filepath.Join(root, "generator_output"),
	)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)

	return string(data)
}

// ---------------------------------------------------------------------------
// generate
// ---------------------------------------------------------------------------

func TestGenerate_WritesDatasetFile(t *testing.T) {
	root := newProject(t)

	stdout, _, err := executeCommand(projectArgs(root, "generate")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 records")

	assert.Equal(t, projectLiteral, readFile(t, filepath.Join(root, "generator_output", "comics.js")))

	_, err = os.Stat(filepath.Join(root, "helper.js"))
	assert.True(t, os.IsNotExist(err), "generate must not splice templates")
}

func TestGenerate_Stdout(t *testing.T) {
	root := newProject(t)

	stdout, _, err := executeCommand(projectArgs(root, "generate", "--stdout")...)
	require.NoError(t, err)
	assert.Equal(t, projectLiteral+"\n", stdout)

	_, err = os.Stat(filepath.Join(root, "generator_output"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_CustomVariable(t *testing.T) {
	root := newProject(t)

	stdout, _, err := executeCommand(projectArgs(root, "generate", "--stdout", "--variable", "arcs")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "const arcs = [\n")
}

func TestGenerate_MissingCSV(t *testing.T) {
	_, _, err := executeCommand("generate", "--log-level", "error", "--csv", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestGenerate_MissingCSVIsReported(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	for _, sub := range []string{"generate", "build"} {
		t.Run(sub, func(t *testing.T) {
			code, _, reported := runCommand(sub, "--log-level", "error", "--csv", missing)
			assert.Equal(t, 1, code)
			assert.Contains(t, reported, "Error:")
			assert.Contains(t, reported, "missing.csv")
		})
	}
}

func TestGenerate_ExtraArgs(t *testing.T) {
	_, _, err := executeCommand("generate", "extra")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// build
// ---------------------------------------------------------------------------

func TestBuild_SplicesTemplates(t *testing.T) {
	root := newProject(t)
	dist := filepath.Join(root, "dist")

	stdout, _, err := executeCommand(append(projectArgs(root, "build"),
		"--template-dir", filepath.Join(root, "userscripts_base"),
		"--splice-dir", dist,
	)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "spliced "+filepath.Join(dist, "helper.js"))

	want := "// @version 1.0\n(function() {\n// <COMIC_DATA>\n" + projectLiteral + "\n// </COMIC_DATA>\n})();\n"
	assert.Equal(t, want, readFile(t, filepath.Join(dist, "helper.js")))
	assert.Equal(t, projectLiteral, readFile(t, filepath.Join(root, "generator_output", "comics.js")))
}

func TestBuild_BumpVersion(t *testing.T) {
	root := newProject(t)
	dist := filepath.Join(root, "dist")

	_, _, err := executeCommand(append(projectArgs(root, "build"),
		"--template-dir", filepath.Join(root, "userscripts_base"),
		"--splice-dir", dist,
		"--bump", "minor",
	)...)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dist, "helper.js")), "// @version 1.1.0\n")
}

// Spliced scripts go to the working directory by default while the dataset
// file goes to generator_output. This pins that split.
func TestBuild_DefaultsWriteToWorkingDirectory(t *testing.T) {
	root := newProject(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, _, err = executeCommand("build", "--log-level", "error")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "generator_output", "comics.js"))
	assert.FileExists(t, filepath.Join(root, "helper.js"))
	assert.NoFileExists(t, filepath.Join(root, "generator_output", "helper.js"))
}

func TestBuild_MissingTemplateDir(t *testing.T) {
	root := newProject(t)

	_, _, err := executeCommand(append(projectArgs(root, "build"),
		"--template-dir", filepath.Join(root, "missing"),
		"--splice-dir", filepath.Join(root, "dist"),
	)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template directory not found")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)

	// The dataset step is unaffected.
	assert.FileExists(t, filepath.Join(root, "generator_output", "comics.js"))
}

func TestBuild_MissingTemplateDirIsReported(t *testing.T) {
	root := newProject(t)

	code, stdout, reported := runCommand(append(projectArgs(root, "build"),
		"--template-dir", filepath.Join(root, "missing"),
		"--splice-dir", filepath.Join(root, "dist"),
	)...)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "wrote ")
	assert.Contains(t, reported, "Error:")
	assert.Contains(t, reported, "template directory not found")
}

func TestBuild_InvalidBump(t *testing.T) {
	_, _, err := executeCommand("build", "--bump", "build")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func TestWatch_InitialBuildAndShutdown(t *testing.T) {
	root := newProject(t)
	dist := filepath.Join(root, "dist")

	cmd := NewRootCommand()
	out := &lockedBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(&lockedBuffer{})
	cmd.SetArgs(append(projectArgs(root, "watch"),
		"--template-dir", filepath.Join(root, "userscripts_base"),
		"--splice-dir", dist,
		"--debounce", "50ms",
	))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- cmd.ExecuteContext(ctx)
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not shut down in time")
	}

	assert.Contains(t, out.String(), "(initial) → OK (2 records")
	assert.FileExists(t, filepath.Join(dist, "helper.js"))
}

func TestWatch_MissingTemplateDir(t *testing.T) {
	root := newProject(t)

	_, _, err := executeCommand(append(projectArgs(root, "watch"),
		"--template-dir", filepath.Join(root, "missing"),
	)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching directory")
}

// ---------------------------------------------------------------------------
// inspect
// ---------------------------------------------------------------------------

func TestInspect_Text(t *testing.T) {
	root := newProject(t)

	stdout, _, err := executeCommand("inspect", filepath.Join(root, "generator_stuff", "housepets_comics.csv"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Records: 2")
	assert.Contains(t, stdout, "arc_number (1 fallback(s))")
}

func TestInspect_JSONFromConfiguredCSV(t *testing.T) {
	root := newProject(t)

	stdout, _, err := executeCommand("inspect", "--format", "json",
		"--csv", filepath.Join(root, "generator_stuff", "housepets_comics.csv"))
	require.NoError(t, err)

	var s inspect.Summary
	require.NoError(t, json.Unmarshal([]byte(stdout), &s))
	assert.Equal(t, 2, s.Records)
	assert.Equal(t, []int{2}, s.ArcFallbacks)
}

func TestInspect_UnknownFormat(t *testing.T) {
	root := newProject(t)

	_, _, err := executeCommand("inspect", "--format", "xml", filepath.Join(root, "generator_stuff", "housepets_comics.csv"))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestInspect_ExtraArgs(t *testing.T) {
	_, _, err := executeCommand("inspect", "a", "b")
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Completion command
// ---------------------------------------------------------------------------

func TestCompletion_Bash(t *testing.T) {
	stdout, _, err := executeCommand("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bash completion")
}

func TestCompletion_Zsh(t *testing.T) {
	stdout, _, err := executeCommand("completion", "zsh")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func TestCompletion_Fish(t *testing.T) {
	stdout, _, err := executeCommand("completion", "fish")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fish")
}

func TestCompletion_InvalidShell(t *testing.T) {
	_, _, err := executeCommand("completion", "invalid")
	require.Error(t, err)
}

func TestCompletion_FlagValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"bump", []string{"build", "--bump", ""}, []string{"none", "patch", "minor", "major"}},
		{"inspect format", []string{"inspect", "--format", ""}, []string{"text", "json", "yaml"}},
		{"log level", []string{"generate", "--log-level", ""}, []string{"debug", "info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			require.NoError(t, err)

			for _, v := range tt.want {
				assert.Contains(t, stdout, v+"\n")
			}
		})
	}
}
