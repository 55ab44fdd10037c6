package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubtools/hubsync/internal/artifacts"
	"github.com/hubtools/hubsync/internal/sync"
)

// selectSyncable resolves the requested artifact types for push/delete
// commands. Pull-only types are skipped when the selection is implicit and
// rejected when named explicitly.
func selectSyncable(args []string) ([]artifacts.Definition, error) {
	defs, err := artifacts.Select(args)
	if err != nil {
		return nil, err
	}

	explicit := len(args) > 0
	var selected []artifacts.Definition
	for _, def := range defs {
		if def.PullOnly {
			if explicit {
				return nil, fmt.Errorf("artifact type %q is read-only on the hub", def.TypeName)
			}
			continue
		}
		selected = append(selected, def)
	}
	return selected, nil
}

func pushType(cmd *cobra.Command, engine *sync.Engine, all bool) (*sync.PushResult, error) {
	if all {
		return engine.PushAllItems(cmd.Context())
	}
	return engine.PushModifiedItems(cmd.Context())
}

func pullType(cmd *cobra.Command, engine *sync.Engine, all bool) (*sync.PullResult, error) {
	if all {
		return engine.PullAllItems(cmd.Context())
	}
	return engine.PullModifiedItems(cmd.Context())
}
