package slimproto

import (
	"os"
	"strings"

	"github.com/provide-io/slimplayer/pkg/utils/permissions"
)

const nameFilePerms = "0644"

// ReadNameFile returns the player name stored in path.
func ReadNameFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteNameFile stores name in path.
func WriteNameFile(path, name string) error {
	return os.WriteFile(path, []byte(name+"\n"), permissions.FileMode(nameFilePerms))
}
