package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

/*
ReadKeyValues takes the contents of a file with an option per line in the form
key=value and returns them as a map. Blank lines and lines starting with # are
skipped. Spaces around keys and values are trimmed.
*/
func ReadKeyValues(data []byte) (map[string]string, error) {
	options := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for l := 1; scanner.Scan(); l++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", l, line)
		}
		key := strings.TrimSpace(kv[0])
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", l)
		}
		options[key] = strings.TrimSpace(kv[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return options, nil
}
