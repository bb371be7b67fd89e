package ports

// FileProbe answers the filesystem questions needed to record invalidation scope.
//
//go:generate mockgen -source=file_probe.go -destination=mocks/mock_file_probe.go -package=mocks
type FileProbe interface {
	// NearestManifestDir walks up from dir and returns the first directory containing
	// a package.json. ok is false when none exists up to the filesystem root.
	NearestManifestDir(dir string) (manifestDir string, ok bool)
	// Readlink returns the target of path when path is a symbolic link.
	Readlink(path string) (target string, ok bool)
}
