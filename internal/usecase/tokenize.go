package usecase

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"textok/internal/adapter/fs"
	"textok/internal/domain"
	"textok/internal/port"
)

// TokenizeUseCase runs a tokenizer over text, streams and files.
type TokenizeUseCase struct {
	tokenizer port.Tokenizer
	walker    port.FileWalker
	maxBytes  int64
	logger    *slog.Logger
}

// NewTokenizeUseCase creates a new tokenize use case. walker may be nil when
// only Text and Lines are used.
func NewTokenizeUseCase(tokenizer port.Tokenizer, walker port.FileWalker, maxBytes int64) *TokenizeUseCase {
	return &TokenizeUseCase{
		tokenizer: tokenizer,
		walker:    walker,
		maxBytes:  maxBytes,
		logger:    slog.Default(),
	}
}

// Text tokenizes a single string.
func (u *TokenizeUseCase) Text(text string) []string {
	return u.tokenizer.Tokenize(text)
}

// Lines tokenizes r line by line and hands each result to fn. Line numbers
// start at 1. Scanning stops at the first error returned by fn.
func (u *TokenizeUseCase) Lines(r io.Reader, fn func(line int, tokens []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if err := fn(line, u.tokenizer.Tokenize(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// FilesResult contains the results of tokenizing a directory.
type FilesResult struct {
	Files        []domain.FileTokens `json:"files"`
	FilesSkipped int                 `json:"files_skipped"`
	NotText      int                 `json:"not_text"`
	TotalTokens  int                 `json:"total_tokens"`
	Errors       []string            `json:"errors,omitempty"`
}

// ProgressFunc is called after each file.
type ProgressFunc func(processed, total int, currentFile string)

// Files tokenizes every file the walker selects under root. Per-file
// failures are recorded in the result and do not stop the walk.
func (u *TokenizeUseCase) Files(root string, keepTokens bool, progress ProgressFunc) (*FilesResult, error) {
	if u.walker == nil {
		return nil, fmt.Errorf("no file walker configured")
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	result := &FilesResult{}
	for i, file := range files {
		if u.maxBytes > 0 && file.Size > u.maxBytes {
			u.logger.Debug("skipping large file", "path", file.Path, "size", file.Size)
			result.FilesSkipped++
		} else if err := u.tokenizeFile(file, keepTokens, result); errors.Is(err, fs.ErrNotText) {
			u.logger.Debug("skipping non-text file", "path", file.Path)
			result.NotText++
		} else if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to tokenize %s: %v", file.Path, err))
		}

		if progress != nil {
			progress(i+1, len(files), file.Path)
		}
	}

	u.logger.Debug("tokenized files",
		"root", root,
		"files", len(result.Files),
		"skipped", result.FilesSkipped,
		"not_text", result.NotText,
		"tokens", result.TotalTokens)

	return result, nil
}

func (u *TokenizeUseCase) tokenizeFile(file port.FileInfo, keepTokens bool, result *FilesResult) error {
	content, err := fs.ReadText(file.Path)
	if err != nil {
		return err
	}

	tokens := u.tokenizer.Tokenize(content)
	ft := domain.FileTokens{
		Path:  file.Path,
		Count: len(tokens),
	}
	if keepTokens {
		ft.Tokens = tokens
	}

	result.Files = append(result.Files, ft)
	result.TotalTokens += len(tokens)
	return nil
}
