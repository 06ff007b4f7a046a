// Package config reads the configuration file.
//
// The configuration file is YAML. Every field is optional, and a missing file
// is the same as an empty one:
//
//	compiler:
//	  command: javac
//	  args: [-g]
//	  active: javac
//	session:
//	  launcher: java
//	  syntax: script
//	  prompt: "> "
//	  history: /home/me/.local/state/wkbench/history.db
//	  transcript: /tmp/transcript.txt
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"src.wkbench.dev/pkg/compiler"
	"src.wkbench.dev/pkg/session"
)

// Config is the content of a configuration file.
type Config struct {
	Compiler Compiler `yaml:"compiler"`
	Session  Session  `yaml:"session"`
}

// Compiler configures the external compiler.
type Compiler struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// Name of the compiler to make active; the first available one if empty.
	Active string `yaml:"active"`
}

// Session configures the interactive session.
type Session struct {
	Launcher string `yaml:"launcher"`
	// Either "java" or "script"; see LaunchSyntax.
	Syntax string `yaml:"syntax"`
	Prompt string `yaml:"prompt"`
	// Path of the history database; history is not kept across runs if
	// empty.
	History string `yaml:"history"`
	// Path of a file the transcript is appended to, if not empty.
	Transcript string `yaml:"transcript"`
}

// Default returns the configuration used when there is no configuration
// file.
func Default() *Config {
	return &Config{
		Compiler: Compiler{Command: "javac"},
		Session: Session{
			Launcher: session.DefaultLauncher,
			Syntax:   "script",
			Prompt:   session.DefaultPrompt,
		},
	}
}

// DefaultPath returns the path of the configuration file used when none is
// given, $XDG_CONFIG_HOME/wkbench/config.yaml on Unix.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wkbench", "config.yaml"), nil
}

// Load reads the configuration file at path. A missing file yields the
// default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses the content of a configuration file. Fields that are absent
// keep their default values; unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := cfg.LaunchSyntax(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LaunchSyntax returns the launch syntax named by Session.Syntax.
func (cfg *Config) LaunchSyntax() (session.LaunchSyntax, error) {
	switch cfg.Session.Syntax {
	case "java":
		return session.JavaLaunch, nil
	case "script", "":
		return session.ScriptLaunch, nil
	default:
		return nil, fmt.Errorf("unknown launch syntax %q, must be java or script", cfg.Session.Syntax)
	}
}

// Compilers returns a compiler registry with the configured compiler, with
// Compiler.Active made active if set.
func (cfg *Config) Compilers() (*compiler.Registry, error) {
	var compilers []compiler.Compiler
	if cfg.Compiler.Command != "" {
		compilers = append(compilers, compiler.NewExec(cfg.Compiler.Command, cfg.Compiler.Args...))
	}
	reg := compiler.NewRegistry(compilers...)
	if cfg.Compiler.Active != "" {
		c, ok := reg.Lookup(cfg.Compiler.Active)
		if !ok {
			return nil, fmt.Errorf("compiler %s is not available", cfg.Compiler.Active)
		}
		reg.SetActive(c)
	}
	return reg, nil
}

// SessionConfig returns the parts of session.Config determined by the
// configuration. The caller supplies the history store and the transcript
// mirror, which need resources to be opened.
func (cfg *Config) SessionConfig() (session.Config, error) {
	syntax, err := cfg.LaunchSyntax()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Launcher:     cfg.Session.Launcher,
		LaunchSyntax: syntax,
		Prompt:       cfg.Session.Prompt,
	}, nil
}
