package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modspec/internal/core/ports"
)

const (
	// FileSystemNodeID is the unique identifier for the filesystem Graft node.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// ProbeNodeID is the unique identifier for the file probe Graft node.
	ProbeNodeID graft.ID = "adapter.fs.probe"
)

func init() {
	graft.Register(graft.Node[FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (FileSystem, error) {
			return NewOSFS(), nil
		},
	})

	graft.Register(graft.Node[ports.FileProbe]{
		ID:        ProbeNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FileSystemNodeID},
		Run: func(ctx context.Context) (ports.FileProbe, error) {
			fsys, err := graft.Dep[FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewProbe(fsys), nil
		},
	})
}
