package splithttp

// Chunk is one contiguous byte range of a download. StartByte and EndByte are
// inclusive; Index is 1-based and fixes assembly order.
type Chunk struct {
	Index     int
	StartByte int64
	EndByte   int64
}

// Length returns the number of bytes covered by the chunk.
func (c Chunk) Length() int64 {
	return c.EndByte - c.StartByte + 1
}

// PartitionChunks splits fileSize bytes across the given number of streams.
// Chunk size is fileSize/(streams-1), so the last chunk carries the remainder
// and gets clamped to the end of the file. The chunks are disjoint, gap-free,
// and cover [0, fileSize-1] in ascending order.
func PartitionChunks(fileSize int64, streams int) []Chunk {
	if streams < 1 {
		streams = 1
	}
	if fileSize <= 0 {
		// Zero-length resource still gets one (empty) chunk so the pipeline
		// round-trips to an empty output file.
		return []Chunk{{Index: 1, StartByte: 0, EndByte: -1}}
	}
	if streams == 1 {
		return []Chunk{{Index: 1, StartByte: 0, EndByte: fileSize - 1}}
	}
	chunkSize := fileSize / int64(streams-1)
	if chunkSize < 1 {
		chunkSize = 1
	}
	var chunks []Chunk
	index := 1
	for start := int64(0); start < fileSize; start += chunkSize {
		end := start + chunkSize - 1
		if end > fileSize-1 {
			end = fileSize - 1
		}
		chunks = append(chunks, Chunk{Index: index, StartByte: start, EndByte: end})
		index++
	}
	return chunks
}
