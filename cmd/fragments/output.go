package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fragments/internal/api"
	"fragments/internal/format"
)

var outputFormatter format.Formatter = format.JSONFormatter{Indent: true}

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout

func writeJSON(payload any) error {
	return outputFormatter.Write(stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(stdout, format, args...)
	return err
}

func writeFragmentList(fragments []api.Fragment) error {
	for _, f := range fragments {
		if err := writePlain("%s\n", formatFragmentLine(f)); err != nil {
			return err
		}
	}
	return nil
}

func writeFragmentDetail(f api.Fragment) error {
	lines := []string{
		fmt.Sprintf("id: %s", f.ID),
		fmt.Sprintf("owner: %s", f.OwnerID),
		fmt.Sprintf("type: %s", f.Type),
		fmt.Sprintf("size: %d", f.Size),
		fmt.Sprintf("created: %s", f.Created),
		fmt.Sprintf("updated: %s", f.Updated),
	}
	if len(f.Formats) > 0 {
		lines = append(lines, fmt.Sprintf("formats: %s", strings.Join(f.Formats, ", ")))
	}
	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatFragmentLine(f api.Fragment) string {
	return fmt.Sprintf("%s  %-18s %8d  %s", f.ID, f.Type, f.Size, f.Updated)
}
