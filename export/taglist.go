package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTagList reads a newline-delimited tag list. Blank lines and lines
// starting with '#' are skipped; surrounding whitespace is trimmed.
func LoadTagList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tag list: %w", err)
	}
	defer f.Close()

	var tags []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tags = append(tags, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tag list: %w", err)
	}

	return tags, nil
}
