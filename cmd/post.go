package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/models"
	"github.com/marcus/postadmin/internal/output"
	"github.com/marcus/postadmin/internal/serve"
	"github.com/marcus/postadmin/internal/store"
)

// defaultTableWidth is used when stdout is not a terminal.
const defaultTableWidth = 120

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Short:   "List, show, create, update and delete posts",
		GroupID: "posts",
	}
	cmd.PersistentFlags().Bool("json", false, "Output JSON")

	cmd.AddCommand(
		newPostListCmd(a),
		newPostShowCmd(a),
		newPostSearchCmd(a),
		newPostCreateCmd(a),
		newPostUpdateCmd(a),
		newPostDeleteCmd(a),
	)
	return cmd
}

func newPostListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List posts, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			search, _ := cmd.Flags().GetString("search")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			list, err := posts.List(cmd.Context(), store.ListOptions{Search: search, Limit: limit, Offset: offset})
			if err != nil {
				return a.fail(cmd, err)
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return output.JSON(w, serve.PostsToDTOs(list))
			}
			output.PostTable(w, list, a.cfg.DateFormat, terminalWidth(w))
			return nil
		},
	}
	cmd.Flags().StringP("search", "s", "", "Only posts whose title or content contains this text")
	cmd.Flags().IntP("limit", "n", 0, "Maximum number of posts (0 = all)")
	cmd.Flags().Int("offset", 0, "Skip this many posts")
	return cmd
}

func newPostShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			post, err := posts.Get(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd, err)
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return output.JSON(w, serve.PostToDTO(post))
			}
			raw, _ := cmd.Flags().GetBool("raw")
			output.PostDetail(w, *post, a.cfg.DateFormat, renderBody(w, post.Content, raw))
			return nil
		},
	}
	cmd.Flags().Bool("raw", false, "Print content without markdown rendering")
	return cmd
}

// searchHit is the JSON shape of a ranked search result.
type searchHit struct {
	Score      int           `json:"score"`
	MatchField string        `json:"match_field"`
	Post       serve.PostDTO `json:"post"`
}

func newPostSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find posts by title or content, best match first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			list, err := posts.List(cmd.Context(), store.ListOptions{Search: args[0]})
			if err != nil {
				return a.fail(cmd, err)
			}
			results := db.RankPosts(list, args[0])

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				hits := make([]searchHit, len(results))
				for i, r := range results {
					hits[i] = searchHit{Score: r.Score, MatchField: r.MatchField, Post: serve.PostToDTO(&r.Post)}
				}
				return output.JSON(w, hits)
			}

			ranked := make([]models.Post, len(results))
			for i, r := range results {
				ranked[i] = r.Post
			}
			output.PostTable(w, ranked, a.cfg.DateFormat, terminalWidth(w))
			return nil
		},
	}
}

func newPostCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Long: `Create a post from flags. Use --content-file - to read the content
from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, err := contentFromFlags(cmd)
			if err != nil {
				return err
			}

			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			post, err := posts.Create(cmd.Context(), models.PostInput{Title: title, Content: content})
			if err != nil {
				return a.fail(cmd, err)
			}
			a.logger.Debug("post created", "id", post.ID)

			if jsonOutput(cmd) {
				return output.JSON(cmd.OutOrStdout(), serve.PostToDTO(post))
			}
			output.Success(cmd.OutOrStdout(), "Created post %s", post.ID)
			return nil
		},
	}
	addContentFlags(cmd.Flags())
	return cmd
}

func newPostUpdateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title or content of a post",
		Long: `Change the title or content of a post. Fields whose flags are not given
keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("content") && !flags.Changed("content-file") {
				return errors.New("nothing to update: pass --title, --content or --content-file")
			}

			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			existing, err := posts.Get(cmd.Context(), args[0])
			if err != nil {
				return a.fail(cmd, err)
			}

			in := existing.Input()
			if flags.Changed("title") {
				in.Title, _ = flags.GetString("title")
			}
			if flags.Changed("content") || flags.Changed("content-file") {
				if in.Content, err = contentFromFlags(cmd); err != nil {
					return err
				}
			}

			post, err := posts.Update(cmd.Context(), existing.ID, in)
			if err != nil {
				return a.fail(cmd, err)
			}

			if jsonOutput(cmd) {
				return output.JSON(cmd.OutOrStdout(), serve.PostToDTO(post))
			}
			output.Success(cmd.OutOrStdout(), "Updated post %s", post.ID)
			return nil
		},
	}
	addContentFlags(cmd.Flags())
	return cmd
}

func newPostDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			posts, _, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := posts.Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(cmd, err)
			}

			if jsonOutput(cmd) {
				return output.JSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
			}
			output.Success(cmd.OutOrStdout(), "Deleted post %s", args[0])
			return nil
		},
	}
}

func addContentFlags(flags *pflag.FlagSet) {
	flags.StringP("title", "t", "", "Post title")
	flags.StringP("content", "c", "", "Post content (markdown)")
	flags.StringP("content-file", "f", "", "Read content from a file, or - for stdin")
}

// contentFromFlags returns --content, or the contents of --content-file.
func contentFromFlags(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("content-file")
	if path == "" {
		content, _ := cmd.Flags().GetString("content")
		return content, nil
	}
	if cmd.Flags().Changed("content") {
		return "", errors.New("--content and --content-file are mutually exclusive")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return string(data), nil
}

// fail reports a store error in the output format of cmd and returns it.
// JSON callers get a coded error object on stdout.
func (a *app) fail(cmd *cobra.Command, err error) error {
	a.logger.Debug("command failed", "cmd", cmd.CommandPath(), "err", err)
	if !jsonOutput(cmd) {
		return err
	}

	code := serve.ErrInternal
	var (
		verr *store.ValidationError
		nerr *store.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		code = serve.ErrValidation
	case errors.As(err, &nerr):
		code = serve.ErrNotFound
	}
	output.JSONError(cmd.OutOrStdout(), code, err.Error())
	return err
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTableWidth
}

// renderBody styles markdown content for terminals and leaves it as is for
// pipes.
func renderBody(w io.Writer, content string, raw bool) string {
	f, ok := w.(*os.File)
	if raw || !ok || !term.IsTerminal(int(f.Fd())) {
		return content
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(terminalWidth(w), 100)),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
