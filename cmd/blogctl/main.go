// Command blogctl reads and edits the blog from a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"personalblog/internal/frontend"
	"personalblog/internal/models"
)

const usage = `usage: blogctl [--server URL] [--session FILE] <command> [flags]

commands:
  list [--tag TAG]       show post cards, optionally filtered by tag
  show <id>              show one post in full
  register <username>    create an account and log in
  login <username>       log in
  logout                 forget the stored session
  whoami [--verify]      print the logged-in user
  new                    create a post (admin)
  edit <id>              update a post (admin)
  delete <id>            delete a post (admin)
`

// stderrDialog prints failures. In a terminal it waits for Enter.
type stderrDialog struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func (d *stderrDialog) Acknowledge(title, message string) {
	fmt.Fprintf(d.out, "%s: %s\n", title, message)
	if d.interactive {
		fmt.Fprint(d.out, "press Enter to continue")
		d.in.ReadString('\n')
	}
}

type cli struct {
	controller *frontend.Controller
	client     *frontend.Client
	stdin      *bufio.Reader
	terminal   *os.File
	out        io.Writer
	errOut     io.Writer
	width      int
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// errReported marks failures already shown through the dialog.
var errReported = errors.New("reported")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("blogctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	server := global.String("server", envOr("BLOG_API_URL", "http://localhost:8080"), "blog API base URL")
	sessionPath := global.String("session", frontend.DefaultSessionPath(), "session file")
	width := global.Int("width", 80, "card width in cells")
	verbose := global.BoolP("verbose", "v", false, "log debug output")

	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	c := &cli{
		stdin:  bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
		width:  *width,
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.terminal = f
	}

	dialog := &stderrDialog{in: c.stdin, out: stderr, interactive: c.terminal != nil}
	c.client = frontend.NewClient(*server, nil)
	c.controller = frontend.NewController(c.client, frontend.NewSessionStore(*sessionPath), dialog, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	name, rest := global.Arg(0), global.Args()[1:]
	switch name {
	case "list":
		return c.list(ctx, rest)
	case "show":
		return c.show(ctx, rest)
	case "register":
		return c.auth(ctx, name, rest, c.controller.Register)
	case "login":
		return c.auth(ctx, name, rest, c.controller.Login)
	case "logout":
		return c.controller.Logout()
	case "whoami":
		return c.whoami(ctx, rest)
	case "new":
		return c.write(ctx, name, rest)
	case "edit":
		return c.write(ctx, name, rest)
	case "delete":
		return c.delete(ctx, rest)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", name)
	}
}

func (c *cli) list(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
	tag := flags.StringP("tag", "t", frontend.AllTags, "only posts with this tag")
	if err := flags.Parse(args); err != nil {
		return err
	}

	c.controller.LoadPosts(ctx)
	c.controller.SetTag(*tag)

	if c.controller.ListState() == frontend.ListFallback {
		fmt.Fprintln(c.out, frontend.RenderFallbackNotice())
	}
	fmt.Fprintln(c.out, frontend.RenderCards(c.controller.Posts(), c.width))

	if tags := c.controller.Tags(); len(tags) > 0 {
		fmt.Fprintf(c.out, "tags: %s\n", strings.Join(tags, ", "))
	}
	return nil
}

func (c *cli) show(ctx context.Context, args []string) error {
	id, err := oneArg("show", args)
	if err != nil {
		return err
	}

	post, err := c.client.GetPost(ctx, id)
	if err != nil {
		// an unreachable server falls back to the sample posts, like list
		var apiErr *frontend.APIError
		if errors.As(err, &apiErr) {
			return err
		}
		sample, ok := models.FindSamplePost(id)
		if !ok {
			return err
		}
		fmt.Fprintln(c.out, frontend.RenderFallbackNotice())
		post = &sample
	}

	fmt.Fprintln(c.out, frontend.RenderPost(*post, c.width))
	return nil
}

func (c *cli) auth(ctx context.Context, name string, args []string, do func(ctx context.Context, username, password string) error) error {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	password := flags.StringP("password", "p", "", "password (read from stdin when omitted)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	username, err := oneArg(name, flags.Args())
	if err != nil {
		return err
	}

	if *password == "" {
		if *password, err = c.readPassword(); err != nil {
			return err
		}
	}

	if err := do(ctx, username, *password); err != nil {
		return errReported
	}

	user := c.controller.User()
	fmt.Fprintf(c.out, "logged in as %s (%s)\n", user.Username, c.controller.AuthState())
	return nil
}

// readPassword prompts on stderr. A terminal gets no echo; piped input is
// read one line at a time.
func (c *cli) readPassword() (string, error) {
	fmt.Fprint(c.errOut, "password: ")

	if c.terminal != nil {
		secret, err := term.ReadPassword(int(c.terminal.Fd()))
		fmt.Fprintln(c.errOut)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(secret), nil
	}

	line, err := c.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) whoami(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
	verify := flags.Bool("verify", false, "ask the server to confirm the session")
	if err := flags.Parse(args); err != nil {
		return err
	}

	user := c.controller.User()
	if user == nil {
		fmt.Fprintln(c.out, "not logged in")
		return nil
	}

	if *verify {
		current, err := c.client.Me(ctx)
		if err != nil {
			return err
		}
		user = current
	}

	role := "reader"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(c.out, "%s (%s) id=%s\n", user.Username, role, user.UserID)
	return nil
}

// write handles both new and edit. Only flags given on the command line
// are sent, so edit leaves the other fields alone.
func (c *cli) write(ctx context.Context, name string, args []string) error {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	title := flags.String("title", "", "post title")
	content := flags.String("content", "", "post body in Markdown")
	contentFile := flags.String("content-file", "", "read the body from a file")
	excerpt := flags.String("excerpt", "", "short summary")
	tags := flags.StringSlice("tags", nil, "comma separated tags")
	image := flags.String("image", "", "featured image URL")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var fields models.PostFields
	if flags.Changed("title") {
		fields.Title = title
	}
	if flags.Changed("content") {
		fields.Content = content
	}
	if flags.Changed("content-file") {
		body, err := os.ReadFile(*contentFile)
		if err != nil {
			return err
		}
		text := string(body)
		fields.Content = &text
	}
	if flags.Changed("excerpt") {
		fields.Excerpt = excerpt
	}
	if flags.Changed("tags") {
		fields.Tags = tags
	}
	if flags.Changed("image") {
		fields.FeaturedImage = image
	}

	if name == "new" {
		if err := c.controller.OpenCreate(); err != nil {
			return errReported
		}
	} else {
		id, err := oneArg(name, flags.Args())
		if err != nil {
			return err
		}
		c.controller.LoadPosts(ctx)
		if err := c.controller.OpenEdit(id); err != nil {
			return errReported
		}
	}

	post, err := c.controller.Submit(ctx, fields)
	if err != nil {
		return errReported
	}

	fmt.Fprintln(c.out, frontend.RenderPost(*post, c.width))
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	id, err := oneArg("delete", args)
	if err != nil {
		return err
	}

	if err := c.controller.Delete(ctx, id); err != nil {
		return errReported
	}

	fmt.Fprintf(c.out, "deleted %s\n", id)
	return nil
}

func oneArg(command string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s takes exactly one argument", command)
	}
	return args[0], nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
