package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/megaplex/realestate/internal/content"
)

// NewExportCmd creates the export command
func NewExportCmd(env *Env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every section to a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(env, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "Destination file ('-' for stdout)")

	return cmd
}

func runExport(env *Env, out string) error {
	sections, err := env.newClient().ListContent()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]content.Document, 0, len(names))
	for _, name := range names {
		doc, err := content.DocumentFrom(name, []byte(sections[name]))
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	if out == "-" {
		return content.EncodeDocuments(env.Out, docs)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := content.EncodeDocuments(f, docs); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(env.Out, "✓ Exported %d sections to %s\n", len(docs), out)
	return nil
}

// NewImportCmd creates the import command
func NewImportCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Upsert every section listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(env, args[0])
		},
	}
}

func runImport(env *Env, path string) error {
	var r io.Reader = env.In
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	docs, err := content.DecodeDocuments(r)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(env.Out, "Nothing to import")
		return nil
	}

	apiClient, err := env.authedClient()
	if err != nil {
		return err
	}

	for _, doc := range docs {
		data, err := doc.JSON()
		if err != nil {
			return err
		}
		if _, err := apiClient.UpdateContent(doc.Section, []byte(data)); err != nil {
			return fmt.Errorf("%s: %w", doc.Section, env.wrapAuthError(err))
		}
		fmt.Fprintf(env.Out, "✓ %s\n", doc.Section)
	}

	fmt.Fprintf(env.Out, "Imported %d sections\n", len(docs))
	return nil
}
