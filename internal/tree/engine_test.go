package tree

import (
	"errors"
	"reflect"
	"testing"

	"packrat/internal/domain/models"
)

// childMap builds a ChildLookup from a static parent->children mapping.
func childMap(m map[string][]string) ChildLookup {
	return func(id string) ([]string, error) {
		return m[id], nil
	}
}

func TestComputePath(t *testing.T) {
	tests := []struct {
		name      string
		parent    *Path
		selfID    string
		selfName  string
		wantIDs   []string
		wantNames []string
		wantDepth int
	}{
		{
			name:      "root location",
			parent:    nil,
			selfID:    "loc-1",
			selfName:  "Apartment",
			wantIDs:   []string{"loc-1"},
			wantNames: []string{"Apartment"},
			wantDepth: 0,
		},
		{
			name:      "child of root",
			parent:    &Path{IDs: []string{"loc-1"}, Names: []string{"Apartment"}},
			selfID:    "loc-2",
			selfName:  "Bedroom",
			wantIDs:   []string{"loc-1", "loc-2"},
			wantNames: []string{"Apartment", "Bedroom"},
			wantDepth: 1,
		},
		{
			name: "grandchild",
			parent: &Path{
				IDs:   []string{"loc-1", "loc-2"},
				Names: []string{"Apartment", "Bedroom"},
			},
			selfID:    "loc-3",
			selfName:  "Closet",
			wantIDs:   []string{"loc-1", "loc-2", "loc-3"},
			wantNames: []string{"Apartment", "Bedroom", "Closet"},
			wantDepth: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePath(tt.parent, tt.selfID, tt.selfName)

			if !reflect.DeepEqual(got.IDs, tt.wantIDs) {
				t.Errorf("IDs = %v, want %v", got.IDs, tt.wantIDs)
			}
			if !reflect.DeepEqual(got.Names, tt.wantNames) {
				t.Errorf("Names = %v, want %v", got.Names, tt.wantNames)
			}
			if got.Depth() != tt.wantDepth {
				t.Errorf("Depth() = %d, want %d", got.Depth(), tt.wantDepth)
			}
		})
	}
}

func TestComputePath_DoesNotAliasParent(t *testing.T) {
	parent := &Path{
		IDs:   make([]string, 1, 4),
		Names: make([]string, 1, 4),
	}
	parent.IDs[0] = "a"
	parent.Names[0] = "A"

	first := ComputePath(parent, "b", "B")
	second := ComputePath(parent, "c", "C")

	if first.IDs[1] != "b" || second.IDs[1] != "c" {
		t.Fatalf("sibling paths share backing storage: %v / %v", first.IDs, second.IDs)
	}
	if parent.IDs[0] != "a" || len(parent.IDs) != 1 {
		t.Fatalf("parent path mutated: %v", parent.IDs)
	}
}

func TestEnumerateDescendantIDs(t *testing.T) {
	//      a
	//     / \
	//    b   c
	//   / \
	//  d   e
	children := childMap(map[string][]string{
		"a": {"b", "c"},
		"b": {"d", "e"},
	})

	tests := []struct {
		name string
		root string
		want []string
	}{
		{name: "full tree", root: "a", want: []string{"b", "c", "d", "e"}},
		{name: "inner node", root: "b", want: []string{"d", "e"}},
		{name: "leaf", root: "d", want: nil},
		{name: "unknown id has no children", root: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnumerateDescendantIDs(tt.root, children)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("descendants = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumerateDescendantIDs_CycleInStore(t *testing.T) {
	// Corrupted store: c points back at a.
	children := childMap(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	_, err := EnumerateDescendantIDs("a", children)
	if err == nil {
		t.Fatal("expected error for cyclic child relation, got nil")
	}
}

func TestEnumerateDescendantIDs_LookupError(t *testing.T) {
	boom := errors.New("connection reset")
	lookup := func(id string) ([]string, error) {
		if id == "b" {
			return nil, boom
		}
		return map[string][]string{"a": {"b"}}[id], nil
	}

	_, err := EnumerateDescendantIDs("a", lookup)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
}

func TestWouldCreateCycle(t *testing.T) {
	children := childMap(map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})

	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name      string
		movingID  string
		candidate *string
		want      bool
	}{
		{name: "move to root", movingID: "a", candidate: nil, want: false},
		{name: "self move", movingID: "a", candidate: strPtr("a"), want: true},
		{name: "direct child", movingID: "a", candidate: strPtr("b"), want: true},
		{name: "deep descendant", movingID: "a", candidate: strPtr("c"), want: true},
		{name: "unrelated node", movingID: "b", candidate: strPtr("x"), want: false},
		{name: "move leaf under root", movingID: "c", candidate: strPtr("a"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WouldCreateCycle(tt.movingID, tt.candidate, children)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("WouldCreateCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func loc(id string, parentID *string, name string, pathIDs, pathNames []string) *models.Location {
	return &models.Location{
		ID:        id,
		ParentID:  parentID,
		Name:      name,
		PathIDs:   pathIDs,
		PathNames: pathNames,
		Depth:     len(pathIDs) - 1,
	}
}

func TestRebuildSubtreePaths_Move(t *testing.T) {
	// Move "Shelf" (with child "Box") from under "Garage" to under
	// "House/Attic".
	shelf := loc("shelf", strP("garage"), "Shelf",
		[]string{"garage", "shelf"},
		[]string{"Garage", "Shelf"})
	box := loc("box", strP("shelf"), "Box",
		[]string{"garage", "shelf", "box"},
		[]string{"Garage", "Shelf", "Box"})

	newParent := &Path{
		IDs:   []string{"house", "attic"},
		Names: []string{"House", "Attic"},
	}

	if err := RebuildSubtreePaths(shelf, []*models.Location{box}, newParent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantShelfIDs := []string{"house", "attic", "shelf"}
	if !reflect.DeepEqual(shelf.PathIDs, wantShelfIDs) {
		t.Errorf("shelf.PathIDs = %v, want %v", shelf.PathIDs, wantShelfIDs)
	}
	if shelf.Depth != 2 {
		t.Errorf("shelf.Depth = %d, want 2", shelf.Depth)
	}

	wantBoxNames := []string{"House", "Attic", "Shelf", "Box"}
	if !reflect.DeepEqual(box.PathNames, wantBoxNames) {
		t.Errorf("box.PathNames = %v, want %v", box.PathNames, wantBoxNames)
	}
	if box.Depth != 3 {
		t.Errorf("box.Depth = %d, want 3", box.Depth)
	}
}

func TestRebuildSubtreePaths_MoveToRoot(t *testing.T) {
	shelf := loc("shelf", strP("garage"), "Shelf",
		[]string{"garage", "shelf"},
		[]string{"Garage", "Shelf"})
	box := loc("box", strP("shelf"), "Box",
		[]string{"garage", "shelf", "box"},
		[]string{"Garage", "Shelf", "Box"})

	if err := RebuildSubtreePaths(shelf, []*models.Location{box}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if shelf.Depth != 0 || len(shelf.PathIDs) != 1 || shelf.PathIDs[0] != "shelf" {
		t.Errorf("shelf path after move to root = %v (depth %d)", shelf.PathIDs, shelf.Depth)
	}
	wantBoxIDs := []string{"shelf", "box"}
	if !reflect.DeepEqual(box.PathIDs, wantBoxIDs) {
		t.Errorf("box.PathIDs = %v, want %v", box.PathIDs, wantBoxIDs)
	}
}

func TestRebuildSubtreePaths_Rename(t *testing.T) {
	// Renaming replaces the root's own path segment for the entire subtree;
	// the parent stays the same.
	kitchen := loc("kitchen", nil, "Pantry", // already renamed in memory
		[]string{"kitchen"},
		[]string{"Kitchen"}) // stale materialized name
	cabinet := loc("cabinet", strP("kitchen"), "Cabinet",
		[]string{"kitchen", "cabinet"},
		[]string{"Kitchen", "Cabinet"})

	if err := RebuildSubtreePaths(kitchen, []*models.Location{cabinet}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if kitchen.PathNames[0] != "Pantry" {
		t.Errorf("kitchen.PathNames = %v, want [Pantry]", kitchen.PathNames)
	}
	wantCabinet := []string{"Pantry", "Cabinet"}
	if !reflect.DeepEqual(cabinet.PathNames, wantCabinet) {
		t.Errorf("cabinet.PathNames = %v, want %v", cabinet.PathNames, wantCabinet)
	}
	if cabinet.Depth != 1 {
		t.Errorf("cabinet.Depth = %d, want 1", cabinet.Depth)
	}
}

func TestRebuildSubtreePaths_DepthDelta(t *testing.T) {
	// Moving a depth-1 subtree root under a depth-2 parent shifts every
	// descendant's depth by the same delta.
	root := loc("r", strP("p"), "R",
		[]string{"p", "r"},
		[]string{"P", "R"})
	d1 := loc("d1", strP("r"), "D1",
		[]string{"p", "r", "d1"},
		[]string{"P", "R", "D1"})
	d2 := loc("d2", strP("d1"), "D2",
		[]string{"p", "r", "d1", "d2"},
		[]string{"P", "R", "D1", "D2"})

	newParent := &Path{
		IDs:   []string{"x", "y", "z"},
		Names: []string{"X", "Y", "Z"},
	}
	oldDepths := []int{root.Depth, d1.Depth, d2.Depth}

	if err := RebuildSubtreePaths(root, []*models.Location{d1, d2}, newParent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	delta := newParent.Depth() + 1 - oldDepths[0]
	for i, l := range []*models.Location{root, d1, d2} {
		if l.Depth != oldDepths[i]+delta {
			t.Errorf("%s depth = %d, want %d", l.ID, l.Depth, oldDepths[i]+delta)
		}
		if len(l.PathIDs) != l.Depth+1 {
			t.Errorf("%s: path length %d does not match depth %d", l.ID, len(l.PathIDs), l.Depth)
		}
	}
}

func TestRebuildSubtreePaths_RejectsForeignNode(t *testing.T) {
	root := loc("r", nil, "R", []string{"r"}, []string{"R"})
	stranger := loc("s", nil, "S", []string{"s"}, []string{"S"})

	err := RebuildSubtreePaths(root, []*models.Location{stranger}, nil)
	if err == nil {
		t.Fatal("expected error for node outside the subtree, got nil")
	}
}

func TestValidate(t *testing.T) {
	parent := loc("a", nil, "A", []string{"a"}, []string{"A"})
	child := loc("b", strP("a"), "B", []string{"a", "b"}, []string{"A", "B"})

	if err := Validate(parent, nil); err != nil {
		t.Errorf("valid root rejected: %v", err)
	}
	if err := Validate(child, parent); err != nil {
		t.Errorf("valid child rejected: %v", err)
	}

	broken := loc("c", strP("a"), "C", []string{"a", "x"}, []string{"A", "C"})
	if err := Validate(broken, parent); err == nil {
		t.Error("expected error for path not ending at self, got nil")
	}

	wrongDepth := loc("d", strP("a"), "D", []string{"a", "d"}, []string{"A", "D"})
	wrongDepth.Depth = 5
	if err := Validate(wrongDepth, parent); err == nil {
		t.Error("expected error for depth mismatch, got nil")
	}
}

func strP(s string) *string { return &s }
