package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fragments/internal/auth"
)

type passwdOptions struct {
	file          string
}

func newPasswdCmd() *cobra.Command {
	opts := &passwdOptions{}
	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Create a bcrypt htpasswd entry for a user",
		Long: "Reads the password from the first line of stdin and prints an htpasswd line.\n" +
			"With --file the entry is written into that file, replacing any previous entry for the user.",
		Args: requireExactlyArgs(1, "username is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswd(cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "htpasswd file to update")
	return cmd
}

func runPasswd(in io.Reader, rawUsername string, opts *passwdOptions) error {
	username, err := auth.NormalizeUsername(rawUsername)
	if err != nil {
		return err
	}
	password, err := readPasswordLine(in)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	entry := auth.FormatEntry(username, hash)

	if opts.file == "" {
		return writePlain("%s\n", entry)
	}
	if err := upsertHtpasswdEntry(opts.file, username, entry); err != nil {
		return err
	}
	return writePlain("%s updated in %s (owner %s)\n", username, opts.file, auth.OwnerID(username))
}

func readPasswordLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required on stdin")
	}
	return password, nil
}

// upsertHtpasswdEntry rewrites path with entry replacing any line for username.
func upsertHtpasswdEntry(path, username, entry string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	var lines []string
	replaced := false
	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, _, _ := strings.Cut(line, ":")
		if strings.EqualFold(strings.TrimSpace(name), username) {
			if !replaced {
				lines = append(lines, entry)
				replaced = true
			}
			continue
		}
		lines = append(lines, line)
	}
	if !replaced {
		lines = append(lines, entry)
	}

	if _, err := auth.ParseHtpasswd(strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("refusing to write invalid htpasswd file: %w", err)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600)
}
