package auth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Htpasswd holds bcrypt credentials loaded from an htpasswd file.
type Htpasswd struct {
	entries map[string]string
}

// LoadHtpasswd reads path. Only bcrypt entries are accepted.
func LoadHtpasswd(path string) (*Htpasswd, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open htpasswd: %w", err)
	}
	defer f.Close()
	h, err := ParseHtpasswd(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// ParseHtpasswd parses "user:hash" lines. Blank lines and lines starting
// with # are skipped.
func ParseHtpasswd(r io.Reader) (*Htpasswd, error) {
	h := &Htpasswd{entries: map[string]string{}}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, hash, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: expected user:hash", lineNo)
		}
		username, err := NormalizeUsername(name)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		hash = strings.TrimSpace(hash)
		if !isBcryptHash(hash) {
			return nil, fmt.Errorf("line %d: only bcrypt hashes are supported", lineNo)
		}
		h.entries[username] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

// Len returns the number of users.
func (h *Htpasswd) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Authenticate checks one username/password pair and returns the owner id
// for the user on success.
func (h *Htpasswd) Authenticate(username, password string) (string, bool) {
	if h == nil {
		return "", false
	}
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return "", false
	}
	hash, ok := h.entries[normalized]
	if !ok || !VerifyPassword(hash, password) {
		return "", false
	}
	return OwnerID(normalized), true
}

// FormatEntry renders one htpasswd line.
func FormatEntry(username, hash string) string {
	return username + ":" + hash
}
