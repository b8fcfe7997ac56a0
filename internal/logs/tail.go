package logs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const maxLineBytes = 1024 * 1024

// Last returns up to limit trailing lines of the file at path, oldest first.
// A missing file yields no lines. A limit <= 0 returns every line.
func Last(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("log path %q is a directory", path)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if limit <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log file: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, limit)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := range count {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
