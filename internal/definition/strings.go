package definition

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadStrings returns one candidate string per input line, in order. Empty
// lines are kept as empty candidates unless only blank lines follow them; a
// trailing carriage return is stripped.
func ReadStrings(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		out = append(out, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read strings: %w", err)
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out, nil
}

// LoadStrings reads the strings file at path.
func LoadStrings(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open strings: %w", err)
	}
	defer f.Close()
	return ReadStrings(f)
}
