package nodefs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modspec/internal/adapters/fs"
	"go.trai.ch/modspec/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "adapter.nodefs.resolver"

func init() {
	graft.Register(graft.Node[ports.Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FileSystemNodeID},
		Run: func(ctx context.Context) (ports.Resolver, error) {
			fsys, err := graft.Dep[fs.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(fsys), nil
		},
	})
}
