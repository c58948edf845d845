package pipeline

import (
	"reelcut/internal/manifest"
	"reelcut/internal/resolver"
)

// Preview is a dry run: the manifest is loaded and every group resolved, but
// no media is opened.
type Preview struct {
	Manifest manifest.Manifest
	Resolved []resolver.ResolvedGroup
	Missing  []manifest.Group
}

// CutCount returns the number of cuts that would be attempted.
func (p Preview) CutCount() int {
	n := 0
	for _, g := range p.Resolved {
		n += len(g.Cuts)
	}
	return n
}

// PreviewRun loads and resolves without touching the media engine.
func PreviewRun(opts Options) (Preview, error) {
	m, err := manifest.Load(opts.ManifestPath, opts.Manifest)
	if err != nil {
		return Preview{}, err
	}
	listing, err := resolver.Snapshot(opts.SourceDir)
	if err != nil {
		return Preview{}, err
	}
	resolved, missing := resolver.New(opts.SourceExtension, opts.CaseInsensitive).ResolveGroups(m.Groups(), listing)
	return Preview{Manifest: m, Resolved: resolved, Missing: missing}, nil
}
