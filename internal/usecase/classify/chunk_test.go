package classify

import "testing"

func TestChunk_Sizes(t *testing.T) {
	items := make([]int, 65)
	for i := range items {
		items[i] = i
	}

	chunks := Chunk(items, 30)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range []int{30, 30, 5} {
		if len(chunks[i]) != want {
			t.Errorf("chunk %d: expected %d items, got %d", i, want, len(chunks[i]))
		}
	}
	if chunks[1][0] != 30 || chunks[2][4] != 64 {
		t.Error("chunks must be contiguous and in input order")
	}
}

func TestChunk_Exact(t *testing.T) {
	chunks := Chunk(make([]string, 60), 30)
	if len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := Chunk([]int{}, 30); len(got) != 0 {
		t.Errorf("expected no chunks, got %d", len(got))
	}
	if got := Chunk([]int{1, 2}, 0); got != nil {
		t.Errorf("expected nil for non-positive size, got %v", got)
	}
}

func TestChunk_AppendDoesNotLeak(t *testing.T) {
	items := []int{1, 2, 3, 4}
	chunks := Chunk(items, 2)
	_ = append(chunks[0], 99)
	if items[2] != 3 {
		t.Error("appending to a chunk must not overwrite the next chunk")
	}
}
