package domain

import (
	"maps"
	"slices"
)

// ChangeKind is the kind of filesystem change reported by the watcher.
type ChangeKind uint8

const (
	// ChangeCreated indicates a file or directory was created.
	ChangeCreated ChangeKind = iota
	// ChangeModified indicates a file's content or a link's target changed.
	ChangeModified
	// ChangeDeleted indicates a file or directory was removed or renamed away.
	ChangeDeleted
)

// String returns a lowercase name for the kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// FileChange is one already-debounced filesystem notification.
type FileChange struct {
	Path string
	Kind ChangeKind
	// Link is set when the path is, or was, a symbolic link. A Modified change with
	// Link set means the link was retargeted.
	Link bool
}

// InvalidationReason explains why the cache was flushed.
type InvalidationReason uint8

const (
	ReasonNone InvalidationReason = iota
	ReasonNodeModules
	ReasonManifest
	ReasonSymlink
	ReasonSettings
	ReasonExplicit
)

// String returns the metric/log label for the reason.
func (r InvalidationReason) String() string {
	switch r {
	case ReasonNodeModules:
		return "node_modules"
	case ReasonManifest:
		return "manifest"
	case ReasonSymlink:
		return "symlink"
	case ReasonSettings:
		return "settings"
	case ReasonExplicit:
		return "explicit"
	default:
		return "none"
	}
}

// Action is what the cache must do in response to an event.
type Action uint8

const (
	// ActionNone keeps every entry.
	ActionNone Action = iota
	// ActionPartial drops only the entries depending on StaleManifestDirs.
	ActionPartial
	// ActionFullClear drops every entry and resets the scope.
	ActionFullClear
)

// Decision is the outcome of classifying one event or a batch of events.
type Decision struct {
	Action Action
	Reason InvalidationReason
	// Path is the event path that triggered the decision, for logging.
	Path string
	// StaleManifestDirs lists the manifest directories invalidated by a partial decision.
	StaleManifestDirs []string
}

// NoInvalidation is the decision that keeps every entry.
var NoInvalidation = Decision{}

// FullClear builds a full-clear decision.
func FullClear(reason InvalidationReason, path string) Decision {
	return Decision{Action: ActionFullClear, Reason: reason, Path: path}
}

// Merge combines two decisions: a full clear dominates, partial decisions union
// their stale directories.
func (d Decision) Merge(other Decision) Decision {
	if d.Action == ActionFullClear {
		return d
	}
	if other.Action == ActionFullClear {
		return other
	}
	if other.Action == ActionNone {
		return d
	}
	if d.Action == ActionNone {
		return other
	}

	set := make(map[string]struct{}, len(d.StaleManifestDirs)+len(other.StaleManifestDirs))
	for _, dir := range d.StaleManifestDirs {
		set[dir] = struct{}{}
	}
	for _, dir := range other.StaleManifestDirs {
		set[dir] = struct{}{}
	}
	d.StaleManifestDirs = slices.Sorted(maps.Keys(set))
	return d
}
