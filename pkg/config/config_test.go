package config

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/must"
	"src.wkbench.dev/pkg/session"
	"src.wkbench.dev/pkg/testutil"
)

func TestLoad_MissingFile(t *testing.T) {
	dir := testutil.TempDir(t)
	cfg, err := Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "config.yaml")
	must.WriteFile(path, `
compiler:
  command: /usr/bin/javac
  args: [-g, -nowarn]
session:
  launcher: run
  history: /tmp/h.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Compiler.Command = "/usr/bin/javac"
	want.Compiler.Args = []string{"-g", "-nowarn"}
	want.Session.Launcher = "run"
	want.Session.History = "/tmp/h.db"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, data, wantErr string
	}{
		{"unknown field", "session:\n  colour: red\n", "colour"},
		{"bad syntax", "session:\n  syntax: lisp\n", "unknown launch syntax"},
		{"not yaml", "compiler: [", "yaml"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.data))
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Parse -> %v, want error containing %q", err, test.wantErr)
			}
		})
	}
}

func TestLoad_ReportsPath(t *testing.T) {
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "config.yaml")
	must.WriteFile(path, "bogus: 1\n")
	_, err := Load(path)
	if err == nil || !strings.HasPrefix(err.Error(), path+": ") {
		t.Errorf("Load -> %v, want error prefixed with the path", err)
	}
}

func TestDefaultPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honored on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/config-home")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := "/config-home/wkbench/config.yaml"; path != want {
		t.Errorf("DefaultPath -> %q, want %q", path, want)
	}
}

func TestLaunchSyntax(t *testing.T) {
	tests := []struct {
		syntax string
		want   session.LaunchSyntax
	}{
		{"java", session.JavaLaunch},
		{"script", session.ScriptLaunch},
		{"", session.ScriptLaunch},
	}
	for _, test := range tests {
		cfg := Default()
		cfg.Session.Syntax = test.syntax
		got, err := cfg.LaunchSyntax()
		if err != nil {
			t.Errorf("LaunchSyntax(%q) -> error %v", test.syntax, err)
			continue
		}
		if reflect.ValueOf(got).Pointer() != reflect.ValueOf(test.want).Pointer() {
			t.Errorf("LaunchSyntax(%q) returned the wrong function", test.syntax)
		}
	}
}

func TestCompilers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	cfg := Default()
	cfg.Compiler.Command = "sh"
	reg, err := cfg.Compilers()
	if err != nil {
		t.Fatal(err)
	}
	if name := reg.Active().Name(); name != "sh" {
		t.Errorf("active compiler %q, want sh", name)
	}

	cfg.Compiler.Command = "no-such-compiler-wkbench"
	reg, err = cfg.Compilers()
	if err != nil {
		t.Fatal(err)
	}
	if reg.Active() != compiler.NoCompiler {
		t.Errorf("active compiler %v, want NoCompiler", reg.Active())
	}

	cfg.Compiler.Active = "no-such-compiler-wkbench"
	if _, err := cfg.Compilers(); err == nil {
		t.Errorf("activating an unavailable compiler succeeded")
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := Default()
	cfg.Session.Prompt = "$ "
	sc, err := cfg.SessionConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Prompt != "$ " || sc.Launcher != "java" || sc.LaunchSyntax == nil {
		t.Errorf("session config %+v", sc)
	}
}
