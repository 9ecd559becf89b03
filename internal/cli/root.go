package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"textok/config"
	"textok/internal/adapter/cache"
	"textok/internal/adapter/memstore"
	"textok/internal/adapter/rulefile"
	"textok/internal/adapter/store"
	"textok/internal/adapter/tokenizer"
	"textok/internal/port"
	"textok/internal/usecase"
)

var (
	cfgFile   string
	cfg       *config.Config
	rootDir   string
	logLevel  string
	tokName   string
	rulesFile string
	noCache   bool
)

var rootCmd = &cobra.Command{
	Use:   "textok",
	Short: "Pattern-driven text tokenization",
	Long: `textok splits text into tokens by applying an ordered list of regular
expression rewrites and then splitting on whitespace.

The built-in basic_english tokenizer lower-cases text and isolates common
punctuation. Custom rule sets can be kept in YAML files or saved by name.

Example usage:
  echo "Hello, World!" | textok tokenize     # basic_english
  textok tokenize --rules my_rules.yaml "Some text"
  textok rules save my_rules.yaml            # store under its name
  textok files ./docs --json                 # tokenize a directory`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		setupLogger(cfg.Logging)

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./textok.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project directory holding .textok (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&tokName, "tokenizer", "t", "", "tokenizer name (built-in or saved rule set)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML rule file to tokenize with")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the token cache")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func configStorePath() string {
	return config.StoreDBPath(GetRootDir())
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(lc config.LoggingConfig) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(lc.Level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if lc.Format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openStore opens the rule set database. With create false a missing
// database yields a nil store and no error.
func openStore(create bool) (*store.BoltStore, error) {
	dbPath := configStorePath()
	if !create {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, nil
		}
	} else if err := config.EnsureDataDir(GetRootDir()); err != nil {
		return nil, fmt.Errorf("failed to create .textok directory: %w", err)
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule store: %w", err)
	}

	migration, err := st.CheckMigration()
	if err != nil {
		st.Close()
		return nil, err
	}
	if migration.Unsupported {
		st.Close()
		return nil, fmt.Errorf("cannot use rule store: %s", migration.Reason)
	}
	if migration.NeedsMigration {
		slog.Info("migrating rule store", "reason", migration.Reason)
		if err := st.Migrate(); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, nil
}

// newRuleSetUseCase returns the use case and a close func for its store.
// Without a database on disk an empty in-memory store stands in.
func newRuleSetUseCase(create bool) (*usecase.RuleSetUseCase, func(), error) {
	st, err := openStore(create)
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return usecase.NewRuleSetUseCase(memstore.NewMemoryStore()), func() {}, nil
	}
	return usecase.NewRuleSetUseCase(st), func() { st.Close() }, nil
}

// buildTokenizer resolves the tokenizer from flags, then config. The
// --rules flag wins over --tokenizer, which wins over the config file.
func buildTokenizer() (port.Tokenizer, error) {
	var tok *tokenizer.RegexTokenizer

	switch {
	case rulesFile != "":
		rs, err := rulefile.Read(rulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file: %w", err)
		}
		tok, err = tokenizer.New(rs)
		if err != nil {
			return nil, err
		}
	default:
		uc, closeStore, err := newRuleSetUseCase(false)
		if err != nil {
			return nil, err
		}
		defer closeStore()

		tc := GetConfig().Tokenizer
		if tokName != "" {
			tc = config.TokenizerConfig{Name: tokName}
		}
		tok, err = uc.Resolve(tc)
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("tokenizer ready", "name", tok.RuleSet().Name, "rules", len(tok.Rules()))

	cc := GetConfig().Cache
	if noCache || !cc.Enabled {
		return tok, nil
	}
	return cache.NewCachedTokenizer(tok, cache.NewTokenCache(cc.Size, cc.TTL)), nil
}
