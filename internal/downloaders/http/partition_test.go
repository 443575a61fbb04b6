package splithttp

import (
	"testing"
)

func TestPartitionChunksScenario(t *testing.T) {
	chunks := PartitionChunks(1000, 4)
	want := []Chunk{
		{Index: 1, StartByte: 0, EndByte: 332},
		{Index: 2, StartByte: 333, EndByte: 665},
		{Index: 3, StartByte: 666, EndByte: 998},
		{Index: 4, StartByte: 999, EndByte: 999},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, chunk := range chunks {
		if chunk != want[i] {
			t.Errorf("chunk %d: expected %+v, got %+v", i, want[i], chunk)
		}
	}
}

func TestPartitionChunksSingleStream(t *testing.T) {
	chunks := PartitionChunks(12345, 1)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].StartByte != 0 || chunks[0].EndByte != 12344 {
		t.Errorf("expected [0, 12344], got [%d, %d]", chunks[0].StartByte, chunks[0].EndByte)
	}
	if chunks[0].Index != 1 {
		t.Errorf("expected index 1, got %d", chunks[0].Index)
	}
}

func TestPartitionChunksZeroLength(t *testing.T) {
	chunks := PartitionChunks(0, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Length() != 0 {
		t.Errorf("expected empty chunk, got length %d", chunks[0].Length())
	}
}

func TestPartitionChunksCoverage(t *testing.T) {
	lengths := []int64{1, 2, 3, 5, 100, 999, 1000, 1001, 4096, 65537, 10 * 1024 * 1024}
	for _, fileSize := range lengths {
		for streams := 1; streams <= 12; streams++ {
			chunks := PartitionChunks(fileSize, streams)
			if len(chunks) == 0 {
				t.Fatalf("L=%d S=%d: no chunks", fileSize, streams)
			}
			if chunks[0].StartByte != 0 {
				t.Errorf("L=%d S=%d: first chunk starts at %d", fileSize, streams, chunks[0].StartByte)
			}
			var covered int64
			for i, chunk := range chunks {
				if chunk.Index != i+1 {
					t.Errorf("L=%d S=%d: chunk %d has index %d", fileSize, streams, i, chunk.Index)
				}
				if chunk.Length() < 1 {
					t.Errorf("L=%d S=%d: chunk %d is empty", fileSize, streams, i)
				}
				if i > 0 && chunk.StartByte != chunks[i-1].EndByte+1 {
					t.Errorf("L=%d S=%d: gap/overlap between chunk %d and %d", fileSize, streams, i-1, i)
				}
				covered += chunk.Length()
			}
			if last := chunks[len(chunks)-1]; last.EndByte != fileSize-1 {
				t.Errorf("L=%d S=%d: last chunk ends at %d, want %d", fileSize, streams, last.EndByte, fileSize-1)
			}
			if covered != fileSize {
				t.Errorf("L=%d S=%d: chunks cover %d bytes, want %d", fileSize, streams, covered, fileSize)
			}
		}
	}
}
