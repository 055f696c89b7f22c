package ui

import "testing"

func TestTree_StaleIDsNeverAlias(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	a, _ := tr.New(root, KindPanel, DefaultStyle())
	b, _ := tr.New(a, KindLabel, DefaultStyle())

	if err := tr.Remove(a); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if tr.Get(a) != nil {
		t.Errorf("removed node still resolvable")
	}
	if tr.Get(b) != nil {
		t.Errorf("removed descendant still resolvable")
	}

	// New nodes reuse the freed slots with a bumped generation.
	c, _ := tr.New(root, KindButton, DefaultStyle())
	if tr.Get(a) != nil || tr.Get(b) != nil {
		t.Errorf("stale ids alias a reused slot")
	}
	if n := tr.Get(c); n == nil || n.Kind != KindButton {
		t.Errorf("new node in reused slot not resolvable")
	}
}

func TestTree_ChildLinksSurviveArenaGrowth(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())

	// Every New can grow the slot arena and relocate existing nodes, so each
	// child link must land in the live backing array, not a stale one.
	var kids []NodeID
	for i := 0; i < 64; i++ {
		id, err := tr.New(root, KindPanel, DefaultStyle())
		if err != nil {
			t.Fatalf("New #%d: %v", i, err)
		}
		kids = append(kids, id)
	}

	if err := tr.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := len(tr.Get(root).Children()); got != len(kids) {
		t.Fatalf("root has %d children, want %d", got, len(kids))
	}
	for i, id := range kids {
		n := tr.Get(id)
		if n == nil {
			t.Fatalf("child %d not resolvable", i)
		}
		if n.Parent() != root {
			t.Errorf("child %d parent = %v, want root", i, n.Parent())
		}
	}
}

func TestTree_RemoveRootEmptiesTree(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	tr.New(root, KindPanel, DefaultStyle())

	if err := tr.Remove(root); err != nil {
		t.Fatalf("Remove(root): %v", err)
	}
	if tr.Root().Valid() {
		t.Errorf("root still set after removal")
	}
	if got := tr.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestTree_NewUnderDeadParent(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	p, _ := tr.New(root, KindPanel, DefaultStyle())
	tr.Remove(p)

	if _, err := tr.New(p, KindLabel, DefaultStyle()); err == nil {
		t.Errorf("New under removed parent succeeded, want error")
	}
}

func TestTree_WalkOrderAndSkip(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	a, _ := tr.New(root, KindPanel, DefaultStyle())
	aa, _ := tr.New(a, KindLabel, DefaultStyle())
	b, _ := tr.New(root, KindPanel, DefaultStyle())

	var visited []NodeID
	tr.Walk(root, func(n *Node) bool {
		visited = append(visited, n.ID())
		return n.ID() != a // skip a's children
	})

	want := []NodeID{root, a, b}
	if len(visited) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(visited), len(want))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visit[%d] = %v, want %v", i, visited[i], want[i])
		}
	}
	_ = aa
}

func TestTree_ValidateCatchesCorruption(t *testing.T) {
	tr := NewTree()
	root := tr.NewRoot(DefaultStyle())
	a, _ := tr.New(root, KindPanel, DefaultStyle())

	if err := tr.Validate(); err != nil {
		t.Fatalf("valid tree reported invalid: %v", err)
	}

	// Corrupt the parent back-reference directly.
	tr.Get(a).parent = a
	if err := tr.Validate(); err == nil {
		t.Errorf("Validate() = nil on corrupted parent link")
	}
}

func TestTree_MutateHookFires(t *testing.T) {
	tr := NewTree()
	var marked []NodeID
	tr.SetMutateHook(func(id NodeID) { marked = append(marked, id) })

	root := tr.NewRoot(DefaultStyle())
	lbl, _ := tr.New(root, KindLabel, DefaultStyle())

	marked = marked[:0]
	tr.SetText(lbl, "hello")
	tr.SetText(lbl, "hello") // no-op, same content
	if len(marked) != 1 || marked[0] != lbl {
		t.Errorf("marked = %v, want exactly [%v]", marked, lbl)
	}
}
