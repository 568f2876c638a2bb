package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"fragments/internal/api"
	"fragments/internal/server"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			lines = append(lines, "hint: set FRAGMENTS_USER and FRAGMENTS_PASSWORD to a user in the server's htpasswd file.")
		case apiErr.Status == http.StatusUnsupportedMediaType:
			lines = append(lines, "hint: run `fragments info <id>` to see which formats the fragment can be converted to.")
		case apiErr.ErrorCode == server.ErrCodeRequestTooLarge:
			lines = append(lines, "hint: the server limits request bodies; see max_body_bytes.")
		case apiErr.Status >= http.StatusInternalServerError:
			lines = append(lines, "hint: server returned an internal error; check server logs for details.")
		}
		if apiErr.Kind == "" && apiErr.ErrorCode == 0 {
			lines = append(lines, "hint: verify FRAGMENTS_API_URL points to a fragments server.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase FRAGMENTS_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: ensure a fragments server is running at FRAGMENTS_API_URL.",
			"hint: start a local server with: fragments srv",
		)
	}
	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
