// Package tree implements the path materialization and traversal rules for
// the self-referencing location tree. It is a pure computation layer: it
// never touches storage itself, it only works on values handed to it by the
// location service, which owns the actual reads and writes.
package tree

import (
	"fmt"

	"packrat/internal/domain/models"
)

// Path is a materialized root-to-self path. IDs and Names correspond 1:1;
// the last element of each is the node itself.
type Path struct {
	IDs   []string
	Names []string
}

// Depth returns the zero-based depth encoded by the path.
func (p Path) Depth() int {
	return len(p.IDs) - 1
}

// ChildLookup returns the ids of the immediate children of a location.
// Implementations read from the backing store (or a snapshot of it).
type ChildLookup func(id string) ([]string, error)

// ComputePath appends self to the parent's materialized path. parent is nil
// for root locations. The returned slices are fresh copies; the parent's
// path is never aliased.
func ComputePath(parent *Path, selfID, selfName string) Path {
	var ids []string
	var names []string
	if parent != nil {
		ids = make([]string, 0, len(parent.IDs)+1)
		names = make([]string, 0, len(parent.Names)+1)
		ids = append(ids, parent.IDs...)
		names = append(names, parent.Names...)
	}
	return Path{
		IDs:   append(ids, selfID),
		Names: append(names, selfName),
	}
}

// PathOf extracts the materialized path stored on a location.
func PathOf(loc *models.Location) Path {
	return Path{IDs: loc.PathIDs, Names: loc.PathNames}
}

// EnumerateDescendantIDs expands the child relation transitively from rootID
// and returns every id below it, excluding rootID itself, in breadth-first
// order. The visited set makes traversal terminate even if the store were to
// contain a cycle; such a cycle is reported as an error rather than looped on.
func EnumerateDescendantIDs(rootID string, children ChildLookup) ([]string, error) {
	visited := map[string]bool{rootID: true}
	var result []string

	queue := []string{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		childIDs, err := children(current)
		if err != nil {
			return nil, fmt.Errorf("expand children of %s: %w", current, err)
		}
		for _, id := range childIDs {
			if visited[id] {
				return nil, fmt.Errorf("cycle detected at location %s", id)
			}
			visited[id] = true
			result = append(result, id)
			queue = append(queue, id)
		}
	}

	return result, nil
}

// WouldCreateCycle reports whether re-parenting movingID under
// candidateParentID would create a cycle. A nil candidate (move to root)
// never creates one. The check expands movingID's descendants via the child
// relation; walking ancestors upward instead would miss the case of moving a
// node into its own subtree.
func WouldCreateCycle(movingID string, candidateParentID *string, children ChildLookup) (bool, error) {
	if candidateParentID == nil {
		return false, nil
	}
	if *candidateParentID == movingID {
		return true, nil
	}

	descendants, err := EnumerateDescendantIDs(movingID, children)
	if err != nil {
		return false, err
	}
	for _, id := range descendants {
		if id == *candidateParentID {
			return true, nil
		}
	}
	return false, nil
}

// RebuildSubtreePaths rewrites the materialized paths of a moved or renamed
// subtree in place. root is the subtree root carrying its pre-rebuild path;
// descendants are all locations below it, in any order. newParentPath is the
// materialized path of the new parent (nil when the root becomes top-level).
//
// For every descendant the old ancestor prefix - everything up to and
// including the subtree root's old position - is replaced by the root's new
// path; the suffix below the root is preserved unchanged.
func RebuildSubtreePaths(root *models.Location, descendants []*models.Location, newParentPath *Path) error {
	oldPrefix := len(root.PathIDs)
	if oldPrefix == 0 || root.PathIDs[oldPrefix-1] != root.ID {
		return fmt.Errorf("location %s has an inconsistent materialized path", root.ID)
	}

	rootPath := ComputePath(newParentPath, root.ID, root.Name)
	root.PathIDs = rootPath.IDs
	root.PathNames = rootPath.Names
	root.Depth = rootPath.Depth()

	for _, d := range descendants {
		if len(d.PathIDs) <= oldPrefix || d.PathIDs[oldPrefix-1] != root.ID {
			return fmt.Errorf("location %s is not in the subtree of %s", d.ID, root.ID)
		}
		if len(d.PathIDs) != len(d.PathNames) {
			return fmt.Errorf("location %s has an inconsistent materialized path", d.ID)
		}

		suffixIDs := d.PathIDs[oldPrefix:]
		suffixNames := d.PathNames[oldPrefix:]

		ids := make([]string, 0, len(rootPath.IDs)+len(suffixIDs))
		names := make([]string, 0, len(rootPath.Names)+len(suffixNames))
		ids = append(append(ids, rootPath.IDs...), suffixIDs...)
		names = append(append(names, rootPath.Names...), suffixNames...)

		d.PathIDs = ids
		d.PathNames = names
		d.Depth = len(ids) - 1
	}

	return nil
}

// Validate checks the path invariants of a single location against its
// parent's materialized path. parent is nil for roots.
func Validate(loc *models.Location, parent *models.Location) error {
	if len(loc.PathIDs) != len(loc.PathNames) {
		return fmt.Errorf("location %s: path_ids and path_names lengths differ", loc.ID)
	}
	if len(loc.PathIDs) != loc.Depth+1 {
		return fmt.Errorf("location %s: depth %d does not match path length %d", loc.ID, loc.Depth, len(loc.PathIDs))
	}
	last := len(loc.PathIDs) - 1
	if loc.PathIDs[last] != loc.ID || loc.PathNames[last] != loc.Name {
		return fmt.Errorf("location %s: path does not end at self", loc.ID)
	}

	if parent == nil {
		if loc.ParentID != nil {
			return fmt.Errorf("location %s: non-root validated without parent", loc.ID)
		}
		if loc.Depth != 0 {
			return fmt.Errorf("location %s: root location has depth %d", loc.ID, loc.Depth)
		}
		return nil
	}

	if loc.ParentID == nil || *loc.ParentID != parent.ID {
		return fmt.Errorf("location %s: parent mismatch", loc.ID)
	}
	if loc.Depth != parent.Depth+1 {
		return fmt.Errorf("location %s: depth %d does not follow parent depth %d", loc.ID, loc.Depth, parent.Depth)
	}
	for i := range parent.PathIDs {
		if loc.PathIDs[i] != parent.PathIDs[i] || loc.PathNames[i] != parent.PathNames[i] {
			return fmt.Errorf("location %s: path prefix diverges from parent at position %d", loc.ID, i)
		}
	}
	return nil
}
