package merkle

import "testing"

func rowsOf(n int) [][]byte {
	rows := make([][]byte, n)
	for i := range rows {
		rows[i] = []byte{byte(i), byte(i >> 8)}
	}
	return rows
}

func TestBuildOpenVerify(t *testing.T) {
	rows := rowsOf(13) // deliberately not a power of two
	tree, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Root()
	for i, row := range rows {
		path, err := tree.Open(i)
		if err != nil {
			t.Fatalf("Open(%d): %v", i, err)
		}
		if !Verify(root, row, path, i) {
			t.Errorf("Verify(%d) failed", i)
		}
	}
}

func TestVerifyRejectsTamperedLeaf(t *testing.T) {
	rows := rowsOf(8)
	tree, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	path, err := tree.Open(3)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if Verify(tree.Root(), []byte{9, 9, 9}, path, 3) {
		t.Error("Verify accepted a tampered leaf")
	}
}

func TestOpenManyMatchesOpen(t *testing.T) {
	rows := rowsOf(17)
	tree, err := Build(rows)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	indices := []int{0, 1, 3, 16}
	many, err := tree.OpenMany(indices)
	if err != nil {
		t.Fatalf("OpenMany: %v", err)
	}
	for _, idx := range indices {
		single, err := tree.Open(idx)
		if err != nil {
			t.Fatalf("Open(%d): %v", idx, err)
		}
		got := many[idx]
		if len(got) != len(single) {
			t.Fatalf("OpenMany(%d) path length %d, want %d", idx, len(got), len(single))
		}
		for i := range got {
			if got[i] != single[i] {
				t.Errorf("OpenMany(%d)[%d] = %+v, want %+v", idx, i, got[i], single[i])
			}
		}
	}
}

func TestOpenOutOfRange(t *testing.T) {
	tree, err := Build(rowsOf(4))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := tree.Open(-1); err == nil {
		t.Error("expected an error for a negative index")
	}
	if _, err := tree.Open(4); err == nil {
		t.Error("expected an error for an out-of-range index")
	}
}
