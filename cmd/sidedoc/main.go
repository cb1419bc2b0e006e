package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"sidedoc/internal/cache"
	"sidedoc/internal/config"
	"sidedoc/internal/crossref"
	"sidedoc/internal/grammar"
	"sidedoc/internal/language"
	"sidedoc/internal/parser"
	"sidedoc/internal/paths"
	"sidedoc/internal/source"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sidedoc",
		Short: "Split annotated source into side-by-side documentation sections",
	}

	configPath    string
	outDir        string
	preservePaths bool
	underlines    bool
	forceLanguage string
	extension     string
	encodingName  string
	skipBadFiles  bool
	noCache       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "sidedoc.yaml", "Path to the yaml config file")
	pf.StringVarP(&outDir, "directory", "d", "", "Output directory destinations are computed against")
	pf.BoolVarP(&preservePaths, "paths", "p", false, "Preserve path structure of original files")
	pf.BoolVarP(&underlines, "underlines", "u", false, "Fold the old extension into the name (x.py -> x_py.html)")
	pf.StringVarP(&forceLanguage, "language", "l", "", "Force the language for the given files")
	pf.StringVar(&extension, "extension", "", "Output extension (default html)")
	pf.StringVar(&encodingName, "encoding", "", "Input text encoding (default utf-8)")
	pf.BoolVarP(&skipBadFiles, "skip-bad-files", "s", false, "Continue processing after hitting a bad file")
	pf.BoolVar(&noCache, "no-cache", false, "Bypass the section cache even when configured")

	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(destCmd)
	rootCmd.AddCommand(languagesCmd)
}

// settings is the effective run configuration: config file layered under
// command-line flags.
type settings struct {
	cfg  *config.Config
	dest paths.Options
}

func loadSettings() (*settings, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if preservePaths {
		cfg.Output.PreservePaths = true
	}
	if underlines {
		cfg.Output.Underlines = true
	}
	if extension != "" {
		cfg.Output.Extension = extension
	}
	if encodingName != "" {
		cfg.Source.Encoding = encodingName
	}
	if skipBadFiles {
		cfg.Source.SkipBadFiles = true
	}

	return &settings{
		cfg: cfg,
		dest: paths.Options{
			OutDir:        cfg.Output.Dir,
			PreservePaths: cfg.Output.PreservePaths,
			Underlines:    cfg.Output.Underlines,
			Extension:     cfg.Output.Extension,
		},
	}, nil
}

// buildRegistry compiles the language table, merging any custom definitions
// file, before any parsing starts.
func buildRegistry(cfg *config.Config) (*language.Registry, error) {
	reg := language.NewRegistry()
	if cfg.Languages.File != "" {
		if err := reg.LoadCustom(cfg.Languages.File); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func newParser() *parser.Parser {
	p := parser.New()
	p.RegisterGrammar("python", grammar.NewPython())
	return p
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [files]",
	Short: "Parse source files and print their documentation/code sections",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadSettings()
		if err != nil {
			log.Fatalf("%v", err)
		}
		reg, err := buildRegistry(st.cfg)
		if err != nil {
			log.Fatalf("Failed to build language table: %v", err)
		}
		p := newParser()

		var store *cache.Store
		if st.cfg.Cache.Path != "" && !noCache {
			store, err = cache.NewStore(st.cfg.Cache.Path)
			if err != nil {
				log.Fatalf("Failed to open section cache: %v", err)
			}
			defer store.Close()
		}

		ctx := context.Background()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		for _, file := range args {
			if err := emitSections(ctx, enc, file, st, reg, p, store); err != nil {
				if st.cfg.Source.SkipBadFiles && parser.IsSkippable(err) {
					fmt.Fprintf(os.Stderr, "sidedoc [FAILURE]: %s, %v\n", file, err)
					continue
				}
				log.Fatalf("%s: %v", file, err)
			}
		}
	},
}

func emitSections(ctx context.Context, enc *json.Encoder, file string, st *settings,
	reg *language.Registry, p *parser.Parser, store *cache.Store) error {

	code, err := source.Load(file, st.cfg.Source.Encoding)
	if err != nil {
		return err
	}

	lang, err := reg.Detect(file, code, forceLanguage)
	if err != nil {
		return err
	}

	key := cache.Key(code)
	var sections []*parser.Section
	if store != nil {
		if cached, ok, err := store.Get(ctx, file, lang.Name, key); err == nil && ok {
			sections = cached
		}
	}
	if sections == nil {
		sections, err = p.Parse(code, lang)
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.Put(ctx, file, lang.Name, key, sections); err != nil {
				fmt.Fprintf(os.Stderr, "sidedoc: cache write failed for %s: %v\n", file, err)
			}
		}
	}

	// Resolve cross-references in the documentation before handing the
	// sections to a renderer.
	for _, s := range sections {
		s.DocsText = crossref.Preprocess(s.DocsText, st.dest)
	}

	return enc.Encode(struct {
		Source   string            `json:"source"`
		Language string            `json:"language"`
		Sections []*parser.Section `json:"sections"`
	}{Source: file, Language: lang.Name, Sections: sections})
}

var destCmd = &cobra.Command{
	Use:   "dest [files]",
	Short: "Print the computed destination path for each source file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadSettings()
		if err != nil {
			log.Fatalf("%v", err)
		}
		for _, file := range args {
			fmt.Printf("%s -> %s\n", file, paths.Destination(file, st.dest))
		}
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the supported languages",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := loadSettings()
		if err != nil {
			log.Fatalf("%v", err)
		}
		reg, err := buildRegistry(st.cfg)
		if err != nil {
			log.Fatalf("Failed to build language table: %v", err)
		}

		for _, ext := range reg.Extensions() {
			lang, _ := reg.Lookup(ext)
			line := fmt.Sprintf("%-8s %-14s single=%q", ext, lang.Name, lang.SingleComment)
			if lang.HasMultiLine() {
				line += fmt.Sprintf(" multi=%q...%q", lang.MultiStart, lang.MultiEnd)
			}
			if lang.GrammarAware {
				line += " (grammar-aware)"
			}
			fmt.Println(line)
		}
	},
}
