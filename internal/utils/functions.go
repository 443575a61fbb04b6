package utils

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

func GetRandomUserAgent() string {
	return userAgents[time.Now().UnixNano()%int64(len(userAgents))]
}

// DetermineJobType maps a URL scheme to a registered downloader type.
func DetermineJobType(link string) string {
	if strings.HasPrefix(link, "s3://") {
		return "s3"
	}
	return "http"
}

// URLFilename extracts the basename of a URL path, falling back to "download".
func URLFilename(link string) string {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return "download"
	}
	name := filepath.Base(parsedURL.Path)
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}

// TempDirFor returns the interim-part directory for one job. Every job gets
// its own subdirectory so concurrent downloads of resources that share a
// filename never touch each other's parts.
func TempDirFor(outputPath, jobID string) string {
	return filepath.Join(filepath.Dir(outputPath), TempDirName, jobID)
}

// PartFilePath returns the interim file path for a 1-based part index within
// the job's own temp subdirectory.
func PartFilePath(outputPath, jobID string, index int) string {
	return filepath.Join(TempDirFor(outputPath, jobID), fmt.Sprintf("%s.part%d", filepath.Base(outputPath), index))
}

var (
	activePathsMu sync.Mutex
	activePaths   = make(map[string]struct{})
)

// ReserveOutputPath claims a final destination for an in-flight job. The path
// is renewed with a -(N) suffix until it collides with neither a file on disk
// nor another active job's destination, then held until released.
func ReserveOutputPath(outputPath string) string {
	activePathsMu.Lock()
	defer activePathsMu.Unlock()
	candidate := outputPath
	for index := 1; ; index++ {
		_, active := activePaths[candidate]
		if _, err := os.Stat(candidate); !active && os.IsNotExist(err) {
			activePaths[candidate] = struct{}{}
			return candidate
		}
		candidate = renewedPath(outputPath, index)
	}
}

// ReleaseOutputPath drops the claim once the job finished either way.
func ReleaseOutputPath(outputPath string) {
	activePathsMu.Lock()
	defer activePathsMu.Unlock()
	delete(activePaths, outputPath)
}

func renewedPath(outputPath string, index int) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed == 0 {
		return "0 B/s"
	}
	bps := float64(bytes) / elapsed
	formatted := FormatBytes(uint64(bps))
	return formatted[:len(formatted)-1] + "B/s" // Slice off "B" and add "B/s"
}

// Clean removes one job's interim subdirectory and drops the shared temp
// directory once no other job owns a subdirectory in it.
func Clean(outputPath, jobID string) error {
	if jobID == "" {
		return nil
	}
	tempDir := TempDirFor(outputPath, jobID)
	if err := os.RemoveAll(tempDir); err != nil {
		return err
	}
	shared := filepath.Dir(tempDir)
	if entries, err := os.ReadDir(shared); err == nil && len(entries) == 0 {
		return os.Remove(shared)
	}
	return nil
}

// CleanDir removes the whole temp directory under dir, if present.
func CleanDir(dir string) error {
	tempDir := filepath.Join(dir, TempDirName)
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(tempDir)
}
