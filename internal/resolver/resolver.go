package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"reelcut/internal/failure"
	"reelcut/internal/manifest"
)

// Listing is a sorted snapshot of the regular files in a directory.
type Listing struct {
	Dir   string
	Names []string
}

// Snapshot lists dir without recursing. Names are sorted so that
// first-match resolution is deterministic across filesystems.
func Snapshot(dir string) (Listing, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Listing{}, failure.Wrap(failure.ErrFatalConfig, "resolver", "snapshot", dir, err)
	}
	if !info.IsDir() {
		return Listing{}, failure.Wrap(failure.ErrFatalConfig, "resolver", "snapshot", dir+" is not a directory", nil)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Listing{}, failure.Wrap(failure.ErrFatalConfig, "resolver", "snapshot", dir, err)
	}
	listing := Listing{Dir: dir, Names: make([]string, 0, len(entries))}
	for _, entry := range entries {
		if !isRegular(dir, entry) {
			continue
		}
		listing.Names = append(listing.Names, entry.Name())
	}
	sort.Strings(listing.Names)
	return listing, nil
}

func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// ResolvedGroup is a manifest group paired with the file that satisfies it.
type ResolvedGroup struct {
	GroupKey   string
	SourcePath string
	Cuts       []manifest.CutSpec
}

// Resolver matches group keys against listing entries.
type Resolver struct {
	Extension       string
	CaseInsensitive bool
}

// New returns a resolver for files ending in extension.
func New(extension string, caseInsensitive bool) *Resolver {
	return &Resolver{Extension: extension, CaseInsensitive: caseInsensitive}
}

// Resolve returns the path of the first entry whose name starts with key and
// ends with the configured extension.
func (r *Resolver) Resolve(key string, listing Listing) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	prefix, suffix := r.normalize(key), r.normalize(r.Extension)
	for _, name := range listing.Names {
		candidate := r.normalize(name)
		if strings.HasPrefix(candidate, prefix) && strings.HasSuffix(candidate, suffix) {
			return filepath.Join(listing.Dir, name), true
		}
	}
	return "", false
}

// ResolveGroups resolves every group, preserving input order. Groups with no
// matching file are returned separately.
func (r *Resolver) ResolveGroups(groups []manifest.Group, listing Listing) ([]ResolvedGroup, []manifest.Group) {
	var resolved []ResolvedGroup
	var missing []manifest.Group
	for _, group := range groups {
		path, ok := r.Resolve(group.Key, listing)
		if !ok {
			missing = append(missing, group)
			continue
		}
		resolved = append(resolved, ResolvedGroup{GroupKey: group.Key, SourcePath: path, Cuts: group.Cuts})
	}
	return resolved, missing
}

// MissError describes a group without a source file.
func MissError(group manifest.Group, extension string) error {
	return failure.Wrap(failure.ErrResolutionMiss, "resolver", group.Key,
		fmt.Sprintf("no file matching %s*%s, %d cut(s) skipped", group.Key, extension, len(group.Cuts)), nil)
}

func (r *Resolver) normalize(value string) string {
	if !r.CaseInsensitive {
		return value
	}
	return cases.Fold().String(value)
}
