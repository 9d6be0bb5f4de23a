package cli

import (
	"context"
	"strings"

	packageurl "github.com/package-url/packageurl-go"

	"github.com/matzehuels/depalyze/pkg/cache"
	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/history"
	pkgio "github.com/matzehuels/depalyze/pkg/io"
)

// loaded is a validated store together with the content hash of the
// snapshot file it came from.
type loaded struct {
	store *history.Store
	hash  string
}

// loadSnapshot reads and validates the snapshot at path. The store logs on
// the context logger under the "history" prefix.
func loadSnapshot(ctx context.Context, path string) (*loaded, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	hash, err := cache.HashFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read snapshot")
	}
	store, err := pkgio.ImportStore(path)
	if err != nil {
		return nil, err
	}
	store.SetLogger(logger.WithPrefix("history"))
	if err := store.Validate(); err != nil {
		return nil, err
	}

	st := store.Stats()
	prog.with("packages", st.Packages, "versions", st.Versions).done("Loaded snapshot")
	return &loaded{store: store, hash: hash}, nil
}

// resolvePackage turns a command-line package argument into a store key.
// Package URLs ("pkg:npm/%40babel/core") resolve to the registry's full
// name; anything else is taken verbatim.
func resolvePackage(arg string) (string, error) {
	if !strings.HasPrefix(arg, "pkg:") {
		return arg, nil
	}
	p, err := packageurl.FromString(arg)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPackage, err, "parse package URL %q", arg)
	}
	if p.Namespace == "" {
		return p.Name, nil
	}
	switch p.Type {
	case "maven":
		return p.Namespace + ":" + p.Name, nil
	default:
		// npm keeps the "@" in the namespace: "@babel" + "/" + "core"
		return p.Namespace + "/" + p.Name, nil
	}
}

// lookupPackage resolves arg and checks that the store knows it.
func lookupPackage(ld *loaded, arg string) (string, error) {
	pkg, err := resolvePackage(arg)
	if err != nil {
		return "", err
	}
	if !ld.store.Has(pkg) {
		return "", errors.New(errors.ErrCodePackageNotFound, "package %q is not in the snapshot", pkg)
	}
	return pkg, nil
}
