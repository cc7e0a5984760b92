package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/sushihentaime/quillpost/internal/client"
	"github.com/sushihentaime/quillpost/internal/session"
)

type cli struct {
	app *client.App
	out io.Writer
}

func newGlobalFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("blogctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.String("api", "", "API base URL")
	fs.String("session", "", "session file")
	return fs
}

func newCLI(ctx context.Context, cfg *Config, out io.Writer, logger *slog.Logger) (*cli, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	storage, err := session.NewFileStorage(cfg.SessionFile, logger)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}

	return &cli{
		app: client.NewApp(ctx, client.NewClient(cfg.APIURL, nil), storage, logger),
		out: out,
	}, nil
}

// result turns a failed view into an error.
func result[T any](v client.View[T]) error {
	if v.Status == client.StatusError {
		return errors.New(v.Message)
	}
	return nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *cli) navigate(route string) {
	if route != "" {
		c.printf("-> %s\n", route)
	}
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami()
	case "blogs":
		return c.blogs(ctx, args)
	case "show":
		return c.show(ctx, args)
	case "comment":
		return c.comment(ctx, args)
	case "post":
		return c.submit(ctx, "", args)
	case "edit":
		if len(args) < 1 {
			return errors.New("edit: missing post id")
		}
		return c.submit(ctx, args[0], args[1:])
	case "image":
		return c.image(ctx, args)
	case "profile":
		return c.profile(ctx)
	case "avatar":
		return c.avatar(ctx, args)
	case "delete":
		return c.remove(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("register", pflag.ContinueOnError)
	var form client.RegisterForm
	fs.StringVar(&form.Name, "name", "", "display name")
	fs.StringVar(&form.Email, "email", "", "e-mail address")
	fs.StringVar(&form.Password, "password", "", "password")
	fs.StringVar(&form.ConfirmPassword, "confirm", "", "password again")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, route := c.app.Register(ctx, form)
	if err := result(v); err != nil {
		return err
	}

	c.printf("registered %s, you can now log in\n", v.Data.Email)
	c.navigate(route)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	email := fs.String("email", "", "e-mail address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, route := c.app.Login(ctx, *email, *password)
	if err := result(v); err != nil {
		return err
	}

	c.printf("signed in as %s\n", displayName(v.Data))
	c.navigate(route)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	v, route := c.app.Logout(ctx)
	if err := result(v); err != nil {
		return err
	}

	c.printf("signed out\n")
	c.navigate(route)
	return nil
}

func displayName(u session.UserData) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (c *cli) whoami() error {
	user, ok := c.app.Session().User()
	if !ok {
		c.printf("not signed in\n")
		return nil
	}

	c.printf("%s <%s> %s\n", displayName(user), user.Email, user.UID)
	return nil
}

func (c *cli) blogs(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("blogs", pflag.ContinueOnError)
	q := fs.String("q", "", "title search")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := c.app.Blogs(ctx, *q)
	if err := result(v); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCREATED")
	for _, b := range v.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Title, b.AuthorName, b.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (c *cli) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("show: expected a post id")
	}

	v := c.app.LoadBlog(ctx, args[0])
	if err := result(v); err != nil {
		return err
	}

	b := v.Data.Blog
	c.printf("%s\nby %s on %s\n\n%s\n", b.Title, b.AuthorName, b.CreatedAt.Format("2006-01-02 15:04"), client.Excerpt(b.Content, 2000))
	if v.Data.IsAuthor {
		c.printf("\nedit: %s\n", client.EditBlogPath(b.ID))
	}

	c.printf("\ncomments (%d)\n", len(v.Data.Comments))
	for _, cm := range v.Data.Comments {
		c.printf("  %s (%s): %s\n", cm.AuthorName, cm.CreatedAt.Format("2006-01-02 15:04"), cm.Text)
	}
	return nil
}

func (c *cli) comment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("comment: expected a post id and text")
	}

	v := c.app.SubmitComment(ctx, args[0], strings.Join(args[1:], " "))
	if err := result(v); err != nil {
		return err
	}

	c.printf("comment %s added\n", v.Data.ID)
	return nil
}

func (c *cli) submit(ctx context.Context, id string, args []string) error {
	fs := pflag.NewFlagSet("post", pflag.ContinueOnError)
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post HTML")
	file := fs.String("file", "", "read the post HTML from a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return err
		}
		*content = string(data)
	}

	v, route := c.app.SubmitBlog(ctx, id, *title, *content)
	if err := result(v); err != nil {
		return err
	}

	c.printf("%s\n", v.Message)
	c.navigate(route)
	return nil
}

func (c *cli) image(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("image: expected a file path")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	v := c.app.UploadEditorImage(ctx, filepath.Base(args[0]), f)
	if err := result(v); err != nil {
		return err
	}

	c.printf("<img src=%q>\n", v.Data)
	return nil
}

func (c *cli) profile(ctx context.Context) error {
	v := c.app.LoadProfile(ctx)
	if err := result(v); err != nil {
		return err
	}

	u := v.Data.User
	c.printf("%s <%s>\n", displayName(u), u.Email)
	if u.ImageURL != "" {
		c.printf("image: %s\n", u.ImageURL)
	}

	c.printf("\nposts (%d)\n", len(v.Data.Posts))
	for _, p := range v.Data.Posts {
		c.printf("  %s  %s\n", p.ID, p.Title)
	}
	return nil
}

func (c *cli) avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("avatar: expected a file path")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	v := c.app.UploadProfileImage(ctx, filepath.Base(args[0]), info.Size(), f)
	if err := result(v); err != nil {
		return err
	}

	c.printf("%s\n%s\n", v.Message, v.Data)
	return nil
}

func (c *cli) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("delete: expected a post id")
	}

	v := c.app.DeletePost(ctx, args[0])
	if err := result(v); err != nil {
		return err
	}

	c.printf("%s\n", v.Message)
	for _, p := range v.Data.FailedImagePaths {
		c.printf("  image not removed: %s\n", p)
	}
	return nil
}
