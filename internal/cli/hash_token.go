package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/portfolio/internal/auth"
)

// HashTokenCommand prints a bcrypt hash for AUTH_ADMIN_TOKEN_HASH.
type HashTokenCommand struct {
	Token string
	Cost  int

	Stdin  io.Reader
	Stdout io.Writer
}

func NewHashTokenCommand() *HashTokenCommand {
	return &HashTokenCommand{Stdin: os.Stdin, Stdout: os.Stdout}
}

// ParseFlags parses command line flags
func (cmd *HashTokenCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-token", flag.ContinueOnError)

	fs.StringVar(&cmd.Token, "token", "", "Token to hash (read from stdin when omitted)")
	fs.IntVar(&cmd.Cost, "cost", 0, "bcrypt cost (default cost when 0)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-token [-token TOKEN]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a bcrypt hash of an admin token for the AUTH_ADMIN_TOKEN_HASH setting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the command
func (cmd *HashTokenCommand) Run() error {
	token := cmd.Token
	if token == "" {
		if cmd.Stdin == nil {
			return errors.New("no token given")
		}
		line, err := bufio.NewReader(cmd.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}

	hash, err := auth.HashToken(token, cmd.Cost)
	if err != nil {
		return err
	}

	out := cmd.Stdout
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
