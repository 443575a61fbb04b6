package splithttp

import (
	"fmt"
	"io"
	"os"
)

// AssembleParts concatenates interim part files, already ordered by chunk
// index, into outputPath with a single sequential writer. A failed assembly
// removes the destination so no truncated file survives at the final path.
func AssembleParts(outputPath string, partPaths []string, expectedSize int64) (retErr error) {
	destFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %v", err)
	}
	defer func() {
		destFile.Close()
		if retErr != nil {
			os.Remove(outputPath)
		}
	}()

	var totalWritten int64
	for _, partPath := range partPaths {
		partFile, err := os.Open(partPath)
		if err != nil {
			return fmt.Errorf("error opening part: %v", err)
		}
		written, err := io.Copy(destFile, partFile)
		partFile.Close()
		if err != nil {
			return fmt.Errorf("error copying part: %v", err)
		}
		totalWritten += written
	}
	if totalWritten != expectedSize {
		return fmt.Errorf("size mismatch: expected %d, got %d", expectedSize, totalWritten)
	}

	for _, partPath := range partPaths {
		os.Remove(partPath)
	}
	return nil
}
