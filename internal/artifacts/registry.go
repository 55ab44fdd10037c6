// Package artifacts defines the per-type sync helpers and wires them into
// engines. Every artifact type is a thin specialization of the same
// generic engine: a handful of predicates, a naming function, and for some
// types a push ordering.
package artifacts

import (
	"fmt"
	"path/filepath"

	"github.com/hubtools/hubsync/internal/hubsdk"
	"github.com/hubtools/hubsync/internal/localstore"
	"github.com/hubtools/hubsync/internal/sync"
)

// Definition binds one artifact type to its hub endpoint, its directory in
// the working dir, and its helper.
type Definition struct {
	TypeName string
	Dir      string
	Endpoint string
	PullOnly bool
	Helper   sync.Helper
}

// Definitions returns every supported artifact type, in the order types
// are processed when a command names none explicitly.
func Definitions() []Definition {
	return []Definition{
		{TypeName: "categories", Dir: "categories", Endpoint: "categories", Helper: NewCategoriesHelper()},
		{TypeName: "assets", Dir: "assets", Endpoint: "assets", Helper: NewAssetsHelper()},
		{TypeName: "content", Dir: "content", Endpoint: "content", Helper: NewContentHelper()},
		{TypeName: "layouts", Dir: "layouts", Endpoint: "layouts", Helper: NewLayoutsHelper()},
		{TypeName: "sites", Dir: "sites", Endpoint: "sites", Helper: NewSitesHelper()},
		{TypeName: "pages", Dir: "pages", Endpoint: "pages", Helper: NewPagesHelper()},
		{TypeName: "renditions", Dir: "renditions", Endpoint: "renditions", PullOnly: true, Helper: NewRenditionsHelper()},
	}
}

// Select resolves type names to definitions, preserving the canonical
// processing order. An empty name list selects every type.
func Select(names []string) ([]Definition, error) {
	all := Definitions()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Definition, len(all))
	for _, def := range all {
		byName[def.TypeName] = def
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown artifact type %q", name)
		}
		requested[name] = true
	}

	var selected []Definition
	for _, def := range all {
		if requested[def.TypeName] {
			selected = append(selected, def)
		}
	}
	return selected, nil
}

// BuildEngine constructs the sync engine for one artifact type over the
// given working directory and hub client.
func BuildEngine(def Definition, workingDir string, client *hubsdk.Client, session *sync.Session, opts sync.Options) (*sync.Engine, error) {
	store, err := localstore.New(filepath.Join(workingDir, def.Dir))
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", def.TypeName, err)
	}
	return sync.NewEngine(def.Helper, client.Items(def.Endpoint), store, session, opts), nil
}
