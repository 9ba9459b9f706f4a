package testframework

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/elementsproject/lnregtest/poll"
)

var TIMEOUT = poll.DefaultTimeout()

// WriteConfig writes config as key=value lines followed by an optional
// [sectionName] block. Keys are sorted so the file only changes when a
// value does.
func WriteConfig(filename string, config map[string]string, sectionConfig map[string]string, sectionName string) error {
	var b strings.Builder
	writeSorted(&b, config)
	if sectionConfig != nil {
		fmt.Fprintf(&b, "\n[%s]\n", sectionName)
		writeSorted(&b, sectionConfig)
	}
	if err := os.WriteFile(filename, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("WriteFile(%s) %w", filename, err)
	}
	return nil
}

func writeSorted(b *strings.Builder, config map[string]string) {
	keys := make([]string, 0, len(config))
	for k := range config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, config[k])
	}
}

// ReadConfig reads a key=value file. Section headers are skipped, so keys
// of all sections end up in one map.
func ReadConfig(filename string) (map[string]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	conf := map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		conf[parts[0]] = parts[1]
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return conf, nil
}
