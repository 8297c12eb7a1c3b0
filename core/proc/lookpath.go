package proc

import (
	"path/filepath"
	"strings"
)

// EnvPath is the environment variable holding the program search list.
const EnvPath = "PATH"

// Candidates lists the executable paths name may refer to, in search order.
// If name contains a slash it is the only candidate and the PATH is not
// consulted.
func Candidates(pathList, name string) []string {
	if strings.Contains(name, "/") {
		return []string{name}
	}

	var out []string
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out
}
