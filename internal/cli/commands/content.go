package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewContentCmd groups the section read/write commands
func NewContentCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and edit page sections",
	}

	cmd.AddCommand(newContentListCmd(env))
	cmd.AddCommand(newContentGetCmd(env))
	cmd.AddCommand(newContentSetCmd(env))

	return cmd
}

func newContentListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContentList(env)
		},
	}
}

func runContentList(env *Env) error {
	sections, err := env.newClient().ListContent()
	if err != nil {
		return err
	}

	if len(sections) == 0 {
		fmt.Fprintln(env.Out, "No sections")
		return nil
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tSIZE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%d bytes\n", name, len(sections[name]))
	}
	return w.Flush()
}

func newContentGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <section>",
		Short: "Print a section's data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContentGet(env, args[0])
		},
	}
}

func runContentGet(env *Env, section string) error {
	data, err := env.newClient().GetContent(section)
	if err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return fmt.Errorf("server returned invalid JSON: %w", err)
	}
	fmt.Fprintln(env.Out, pretty.String())
	return nil
}

func newContentSetCmd(env *Env) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set <section> [json]",
		Short: "Replace a section's data",
		Long: `Replace a section's data with a JSON document.

The document is taken from the second argument, from --file, or from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var inline string
			if len(args) == 2 {
				inline = args[1]
			}
			return runContentSet(env, args[0], inline, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the JSON document from a file ('-' for stdin)")

	return cmd
}

func runContentSet(env *Env, section, inline, file string) error {
	var raw []byte
	switch {
	case inline != "" && file != "":
		return fmt.Errorf("pass the document inline or with --file, not both")
	case inline != "":
		raw = []byte(inline)
	case file != "" && file != "-":
		b, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		raw = b
	default:
		b, err := io.ReadAll(env.In)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		raw = b
	}

	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return fmt.Errorf("document for %q is not valid JSON", section)
	}

	apiClient, err := env.authedClient()
	if err != nil {
		return err
	}

	updated, err := apiClient.UpdateContent(section, raw)
	if err != nil {
		return env.wrapAuthError(err)
	}

	fmt.Fprintf(env.Out, "✓ Updated %s (%s)\n", updated.Section, updated.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}
