package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/changelog-gen/internal/changelog"
	"github.com/ariel-frischer/changelog-gen/internal/config"
	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
	"github.com/ariel-frischer/changelog-gen/internal/output"
	"github.com/ariel-frischer/changelog-gen/internal/watch"
)

var validateFlags struct {
	format  bool
	ast     bool
	stdout  bool
	mapFile string
	watch   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the changelog syntax",
	Long: `Parse the changelog and report the first syntax error with its line
and column.

With --format, the changelog is also normalized: empty sections are
removed, duplicate notes collapsed, sections ordered and notes grouped by
scope. With --watch, the file is validated again on every save.`,
	Example: `  # Check syntax
  changelog-gen validate

  # Normalize and print
  changelog-gen validate --format --stdout

  # Dump the parsed document
  changelog-gen validate --ast

  # Re-validate while editing
  changelog-gen validate --watch`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(validateCmd)

	f := validateCmd.Flags()
	f.BoolVar(&validateFlags.format, "format", false, "Normalize and rewrite the changelog")
	f.BoolVar(&validateFlags.ast, "ast", false, "Print the parsed document as YAML")
	f.BoolVar(&validateFlags.stdout, "stdout", false, "With --format, print instead of writing the file")
	f.StringVar(&validateFlags.mapFile, "map", "", "JSON or YAML section map giving the section order for --format")
	f.BoolVar(&validateFlags.watch, "watch", false, "Validate again whenever the file changes")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if validateFlags.mapFile != "" {
		m, err := config.LoadMapFile(validateFlags.mapFile)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Configuration, "loading --map")
		}
		cfg.Map = m
	}

	if validateFlags.watch {
		return watchValidate(cmd, cfg)
	}
	return validateOnce(cmd, cfg)
}

func validateOnce(cmd *cobra.Command, cfg *config.Configuration) error {
	c, err := readChangelog(cmd, cfg.File)
	if err != nil {
		return err
	}

	if validateFlags.ast {
		if err := writeAST(cmd.OutOrStdout(), c); err != nil {
			return err
		}
	}

	if validateFlags.format {
		c.Sanitize(cfg.SanitizeOptions())
		if err := writeOutput(cmd, c, cfg.File, validateFlags.stdout); err != nil {
			return err
		}
	}

	stats := c.Stats()
	output.PrintSuccess(cmd.ErrOrStderr(), "Changelog parsed with success!")
	output.PrintInfo(cmd.ErrOrStderr(), "%d release(s), %d note(s)", stats.Releases, stats.Notes)
	return nil
}

// watchValidate validates the file, then again after every save, until
// the command context is cancelled. Parse errors are printed, not returned.
func watchValidate(cmd *cobra.Command, cfg *config.Configuration) error {
	w, err := watch.New(cfg.File, 0)
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch mode always reads the file.
	cmd.SetIn(emptyReader{})

	check := func() {
		if err := validateOnce(cmd, cfg); err != nil {
			clierrors.FprintAny(cmd.ErrOrStderr(), err)
		}
	}

	output.PrintInfo(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)", w.Path())
	check()

	changes, errs := w.Changes(cmd.Context())
	for range changes {
		fmt.Fprintln(cmd.ErrOrStderr())
		check()
	}
	return <-errs
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, io.EOF }

// astDocument is the YAML view of a parsed changelog.
type astDocument struct {
	Header      string          `yaml:"header,omitempty"`
	Unreleased  *astRelease     `yaml:"unreleased,omitempty"`
	Releases    []astRelease    `yaml:"releases,omitempty"`
	FooterLinks []astFooterLink `yaml:"footer_links,omitempty"`
}

type astRelease struct {
	Version     string       `yaml:"version"`
	ReleaseLink string       `yaml:"release_link,omitempty"`
	Title       string       `yaml:"title,omitempty"`
	Header      string       `yaml:"header,omitempty"`
	Sections    []astSection `yaml:"sections,omitempty"`
	Footer      string       `yaml:"footer,omitempty"`
}

type astSection struct {
	Title string    `yaml:"title"`
	Notes []astNote `yaml:"notes"`
}

type astNote struct {
	Scope   string   `yaml:"scope,omitempty"`
	Message string   `yaml:"message"`
	Context []string `yaml:"context,omitempty"`
}

type astFooterLink struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

func newASTRelease(r *changelog.Release) astRelease {
	out := astRelease{
		Version:     r.Title.Version,
		ReleaseLink: r.Title.ReleaseLink,
		Title:       r.Title.Title,
		Header:      r.Header,
		Footer:      r.Footer,
	}
	for _, sec := range r.Sections {
		s := astSection{Title: sec.Title}
		for _, n := range sec.Notes {
			s.Notes = append(s.Notes, astNote{Scope: n.Scope, Message: n.Message, Context: n.Context})
		}
		out.Sections = append(out.Sections, s)
	}
	return out
}

func writeAST(w io.Writer, c *changelog.ChangeLog) error {
	doc := astDocument{Header: c.Header}
	if c.Unreleased != nil {
		rel := newASTRelease(c.Unreleased)
		doc.Unreleased = &rel
	}
	for _, r := range c.Releases.Descending() {
		doc.Releases = append(doc.Releases, newASTRelease(r))
	}
	for _, l := range c.FooterLinks {
		doc.FooterLinks = append(doc.FooterLinks, astFooterLink{Text: l.Text, Link: l.Link})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding AST: %w", err)
	}
	return enc.Close()
}
