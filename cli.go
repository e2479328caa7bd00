package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const annotationSkipSession = "olib.skip-session"

// CLI holds the state shared by the commands of one invocation. The App
// is built lazily so that commands like version work without any setup.
type CLI struct {
	configFile string
	ephemeral  bool
	debug      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	lines  *bufio.Reader

	newApp func(c *CLI) (*App, error)
	app    *App
}

func NewCLI(stdin io.Reader, stdout, stderr io.Writer) *CLI {
	return &CLI{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		newApp: buildApp,
	}
}

// buildApp loads the layered configuration then applies the command line overrides.
func buildApp(c *CLI) (*App, error) {
	config, err := LoadAndInitConfigs(c.configFile, GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, err
	}
	if c.ephemeral {
		config.Session.Storage = StorageMemory
	}
	if c.debug {
		config.IsProduction = false
		config.LogLevel = zapcore.DebugLevel
	}
	return NewApp(config, c.stderr)
}

// Execute runs the command line with args and releases the App afterwards.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(c)
	root.SetArgs(args)
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	// every api call of this invocation is logged with the same id.
	ctx = context.WithValue(ctx, ContextInvocationID, NewIDsHandler().Generate(InvocationIDPrefix))
	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Clean(); cerr != nil {
			fmt.Fprintln(c.stderr, "cleanup:", cerr)
		}
		c.app = nil
	}
	return err
}

// boot builds the App once and restores the session.
func (c *CLI) boot(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	app, err := c.newApp(c)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	c.app = app
	app.session.Init(ctx)
	return nil
}

// guard boots the session then applies the route guard.
func (c *CLI) guard(ctx context.Context, rule func(SessionView) RouteDecision) error {
	if err := c.boot(ctx); err != nil {
		return err
	}
	return rule(c.app.session).Err()
}

func NewRootCommand(c *CLI) *cobra.Command {
	root := &cobra.Command{
		Use:   "olib",
		Short: "Online library client",
		Long: `olib talks to the online library api: browse the catalog,
manage your favorites and, with an administrator account, the books.

The session token is kept between runs (see session.storage).
Configuration is read from ./config.yml, ./config.env then the
environment variables prefixed with OLIB_.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationSkipSession] != "" {
				return nil
			}
			return c.boot(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: ./config.yml when present)")
	flags.BoolVar(&c.ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.BoolVar(&c.debug, "debug", false, "print debug logs to stderr")

	root.AddCommand(
		newLoginCommand(c),
		newRegisterCommand(c),
		newLogoutCommand(c),
		newWhoamiCommand(c),
		newBooksCommand(c),
		newFavoritesCommand(c),
		newAdminCommand(c),
		newVersionCommand(c),
	)
	return root
}

func parseBookID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", arg)
	}
	return id, nil
}

// readLine prompts on stderr then reads one line from stdin.
func (c *CLI) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.stderr, prompt)
	}
	if c.lines == nil {
		c.lines = bufio.NewReader(c.stdin)
	}
	line, err := c.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads a password with masking when stdin is a terminal.
func (c *CLI) readPassword(prompt string) (string, error) {
	if f, ok := c.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(c.stderr, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return c.readLine(prompt)
}
