package chunking

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"renoquote/internal/fileutil"
)

var chunkFilePattern = regexp.MustCompile(`^chunk_(\d+)\.txt$`)

// WriteChunks writes chunk_1.txt through chunk_n.txt into dir and returns the
// paths written.
func WriteChunks(dir string, chunks []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}
	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		path := filepath.Join(dir, fmt.Sprintf("chunk_%d.txt", i+1))
		if err := fileutil.WriteFileAtomic(path, []byte(chunk)); err != nil {
			return nil, fmt.Errorf("write chunk %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadChunks loads chunk_N.txt files from dir ordered by N.
func ReadChunks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read chunk dir: %w", err)
	}
	type numbered struct {
		n    int
		name string
	}
	var files []numbered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := chunkFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		files = append(files, numbered{n: n, name: entry.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	chunks := make([]string, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		chunks = append(chunks, string(data))
	}
	return chunks, nil
}
