package testutil

import (
	"os"
	"path/filepath"

	"src.wkbench.dev/pkg/must"
)

// TempDir creates a temporary directory for testing that will be removed after
// the test finishes. It is different from testing.TB.TempDir in that it
// resolves symlinks in the path of the directory, so that paths computed from
// it compare equal to paths reported by the filesystem.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "wkbenchtest."))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, and changes
// back to the original working directory when the test finishes. It returns
// the directory.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when a test finishes.
func Chdir(c Cleanuper, dir string) {
	oldWd := must.OK1(os.Getwd())
	must.OK(os.Chdir(dir))
	c.Cleanup(func() { must.OK(os.Chdir(oldWd)) })
}

// Dir describes the layout of a directory. The keys of the map represent
// filenames. Each value is either a string (for the content of a regular file)
// or another Dir (for the content of a subdirectory).
type Dir map[string]any

// ApplyDir creates the given filesystem layout in the current directory.
func ApplyDir(dir Dir) {
	ApplyDirIn(dir, "")
}

// ApplyDirIn creates the given filesystem layout in a directory.
func ApplyDirIn(dir Dir, root string) {
	for name, file := range dir {
		path := filepath.Join(root, name)
		switch file := file.(type) {
		case string:
			must.OK(os.WriteFile(path, []byte(file), 0o644))
		case Dir:
			must.OK(os.MkdirAll(path, 0o755))
			ApplyDirIn(file, path)
		default:
			panic("file is neither string nor Dir")
		}
	}
}
