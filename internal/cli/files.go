package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"textok/internal/adapter/cache"
	"textok/internal/adapter/fs"
	"textok/internal/usecase"
)

var (
	filesJSON   bool
	filesTokens bool
	filesQuiet  bool
)

var filesCmd = &cobra.Command{
	Use:   "files [path]",
	Short: "Tokenize every matching file in a directory",
	Long: `Tokenize files selected by the include and exclude globs from the config.

Examples:
  textok files .                  # token counts per file
  textok files ./docs --json      # machine-readable counts
  textok files ./docs --json --tokens`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().BoolVar(&filesJSON, "json", false, "output as JSON")
	filesCmd.Flags().BoolVar(&filesTokens, "tokens", false, "include tokens in JSON output")
	filesCmd.Flags().BoolVarP(&filesQuiet, "quiet", "q", false, "hide the progress bar")
}

func runFiles(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()
	tok, err := buildTokenizer()
	if err != nil {
		return err
	}

	walker := fs.NewWalker(cfg.Files.Includes, cfg.Files.Excludes)
	uc := usecase.NewTokenizeUseCase(tok, walker, cfg.Files.MaxBytes)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progress := func(processed, total int, currentFile string) {
		if filesQuiet {
			return
		}
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan]Tokenizing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := uc.Files(path, filesJSON && filesTokens, progress)
	if err != nil {
		return fmt.Errorf("tokenizing failed: %w", err)
	}

	if ct, ok := tok.(*cache.CachedTokenizer); ok {
		hits, misses := ct.Stats()
		slog.Debug("token cache", "hits", hits, "misses", misses)
	}

	out := cmd.OutOrStdout()
	if filesJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, f := range result.Files {
		rel, err := filepath.Rel(path, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Fprintf(out, "%8d  %s\n", f.Count, rel)
	}

	fmt.Fprintf(out, "\nFiles tokenized: %d\n", len(result.Files))
	fmt.Fprintf(out, "Files skipped:   %d (too large), %d (not text)\n", result.FilesSkipped, result.NotText)
	fmt.Fprintf(out, "Total tokens:    %d\n", result.TotalTokens)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
	return nil
}
