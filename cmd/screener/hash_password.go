package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	httpserver "github.com/fairyhunter13/ai-resume-screener/internal/adapter/httpserver"
)

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print an ADMIN_PASSWORD_HASH value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password on stdin")
			}
			pw := strings.TrimRight(line, "\r\n")
			if pw == "" {
				return errors.New("password must not be empty")
			}
			hash, err := httpserver.HashPassword(pw, httpserver.DefaultArgon2Params)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
