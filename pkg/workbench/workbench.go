// Package workbench assembles a model and its resources from the
// configuration file. It is shared by the front-ends.
package workbench

import (
	"os"
	"path/filepath"

	"src.wkbench.dev/pkg/config"
	"src.wkbench.dev/pkg/errutil"
	"src.wkbench.dev/pkg/logutil"
	"src.wkbench.dev/pkg/model"
	"src.wkbench.dev/pkg/store"
)

var logger = logutil.GetLogger("[workbench] ")

// Workbench is a model together with the resources it uses.
type Workbench struct {
	Model  *model.Model
	Config *config.Config

	closers []func() error
}

// Open loads the configuration file at configPath, or at the default path if
// configPath is empty, and creates a model from it. The model calls exit when
// it quits.
func Open(configPath string, exit func()) (*Workbench, error) {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Println("loaded configuration from", configPath)

	compilers, err := cfg.Compilers()
	if err != nil {
		return nil, err
	}
	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		return nil, err
	}

	w := &Workbench{Config: cfg}
	if path := cfg.Session.History; path != "" {
		err := os.MkdirAll(filepath.Dir(path), 0o700)
		if err != nil {
			return nil, err
		}
		st, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		w.closers = append(w.closers, st.Close)
		sessionCfg.Store = st
	}
	if path := cfg.Session.Transcript; path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.closers = append(w.closers, f.Close)
		sessionCfg.Mirror = f
	}

	w.Model = model.New(model.Config{
		Compilers: compilers,
		Session:   sessionCfg,
		Exit:      exit,
	})
	return w, nil
}

// OpenFiles opens the given files as documents. Files that are already open
// are skipped.
func (w *Workbench) OpenFiles(paths []string) error {
	var errs []error
	for _, path := range paths {
		if _, err := w.Model.DocumentForFile(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errutil.Multi(errs...)
}

// Close releases the resources of the workbench.
func (w *Workbench) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		errs = append(errs, w.closers[i]())
	}
	w.closers = nil
	return errutil.Multi(errs...)
}
