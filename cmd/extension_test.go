package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

// writeScript installs an executable svt-<name> shell script in a PATH
// folder.
func writeScript(t *testing.T, name, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "svt-"+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("cannot write extension: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return dir
}

func TestRunExtension(t *testing.T) {
	dir := writeScript(t, "hello", `echo "$SVT_DATA|$SVT_BACKEND|$SVT_VERBOSE|$1" > "$2"`)
	out := filepath.Join(dir, "out.txt")

	*dataDir, *backendName, *verbose = "/tmp/savings", "sqlite", true
	t.Cleanup(func() { *dataDir, *backendName, *verbose = ".savetrack", "folder", false })

	found, code := RunExtension("hello", []string{"world", out})
	if !found || code != 0 {
		t.Fatalf("RunExtension() = %v, %d, want true, 0", found, code)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(got), "/tmp/savings|sqlite|true|world\n"; got != want {
		t.Errorf("extension saw %q, want %q", got, want)
	}
}

func TestRunExtension_ExitCode(t *testing.T) {
	writeScript(t, "fail", "exit 3\n")
	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension() = %v, %d, want true, 3", found, code)
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	if found, _ := RunExtension("does-not-exist-anywhere", nil); found {
		t.Errorf("RunExtension() found a missing extension")
	}
}
