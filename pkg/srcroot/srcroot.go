// Package srcroot finds the source root of a source file from its declared
// package.
//
// The source root is the directory at the base of the package hierarchy; it
// is what the compiler and the interpreter need on their class paths. For a
// file /a/b/com/x/Y.java declaring package com.x, the source root is /a/b.
package srcroot

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InvalidPackageError is returned when a file does not live in the directory
// its package declaration requires, or when the file has not been saved yet.
type InvalidPackageError struct {
	// Absolute path of the source file; empty for unsaved files.
	File string
	// The package component that failed to match, and the directory name found
	// in its place. Got is empty when the directory does not exist.
	Want, Got string
}

func (e *InvalidPackageError) Error() string {
	switch {
	case e.File == "":
		return "cannot get source root for unsaved file; please save"
	case e.Got == "":
		return fmt.Sprintf("the source file %s is in the wrong directory or in the wrong package: "+
			"there is no directory for the package component %s", e.File, e.Want)
	default:
		return fmt.Sprintf("the source file %s is in the wrong directory or in the wrong package: "+
			"the directory name %s does not match the package component %s", e.File, e.Got, e.Want)
	}
}

// Line returns the line the error is attached to. It is always -1, since the
// error concerns the file as a whole.
func (e *InvalidPackageError) Line() int { return -1 }

// Split splits a package path into its components. Both "." and "/" are
// accepted as separators, and empty components are dropped.
func Split(pkg string) []string {
	return strings.FieldsFunc(pkg, func(r rune) bool { return r == '.' || r == '/' })
}

// Resolve returns the source root of file, given the package it declares. The
// empty package is the unnamed package, whose source root is the directory
// containing the file.
//
// The package components are matched against the directories containing the
// file, innermost first. Resolve only inspects the path; it does not access
// the filesystem.
func Resolve(file, pkg string) (string, error) {
	if file == "" {
		return "", &InvalidPackageError{}
	}
	dir := filepath.Dir(file)
	segs := Split(pkg)
	for i := len(segs) - 1; i >= 0; i-- {
		if isTop(dir) {
			return "", &InvalidPackageError{File: file, Want: segs[i]}
		}
		if name := filepath.Base(dir); name != segs[i] {
			return "", &InvalidPackageError{File: file, Want: segs[i], Got: name}
		}
		dir = filepath.Dir(dir)
	}
	if dir == "" {
		panic("srcroot: parent of package directory is empty")
	}
	return dir, nil
}

// Reports whether dir has no parent.
func isTop(dir string) bool {
	return dir == filepath.Dir(dir)
}
