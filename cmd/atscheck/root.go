package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/resume"
	"go-ats-backend/internal/scoring"
	"go-ats-backend/internal/taxonomy"
	"go-ats-backend/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "atscheck"

// Config is read from atscheck.yaml, ATSCHECK_* variables and flags
type Config struct {
	Role           string   `mapstructure:"role"`
	Keywords       []string `mapstructure:"keywords"`
	Taxonomy       string   `mapstructure:"taxonomy"`
	MaxBulletRunes int      `mapstructure:"max-bullet-runes"`
}

// cli carries state shared by subcommands
type cli struct {
	v       *viper.Viper
	cfgFile string
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           app,
		Short:         "atscheck scores structured resumes for ATS compatibility",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "a config file (default is atscheck.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.Bool("log-json", false, "json format for logging")
	flags.StringP("role", "r", "", "target role name or comma separated keywords")
	flags.StringSliceP("keywords", "k", nil, "extra keywords to score against")
	flags.String("taxonomy", "", "YAML file extending the built-in role taxonomy")

	for _, name := range []string{"debug", "log-json", "role", "keywords", "taxonomy"} {
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}

	c.v.SetEnvPrefix(strings.ToUpper(app))
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	rootCmd.AddCommand(
		newScoreCmd(c),
		newReportCmd(c),
		newRolesCmd(c),
	)

	rootCmd.SetErrPrefix(app + ":")
	return rootCmd
}

func (c *cli) init() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		c.v.SetConfigName(app)
		c.v.SetConfigType("yaml")
	}

	// A missing default config file is fine
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	log, err := logger.NewCLI(c.v.GetBool("log-json"), c.v.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	c.log = log
	if used := c.v.ConfigFileUsed(); used != "" {
		c.log.Debug("loaded config", zap.String("file", used))
	}
	return nil
}

func (c *cli) config() (*Config, error) {
	var cfg Config
	if err := c.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func (c *cli) taxonomy(cfg *Config) (*taxonomy.Taxonomy, error) {
	roles, err := taxonomy.Load(cfg.Taxonomy)
	if err != nil {
		return nil, err
	}
	if cfg.Taxonomy != "" {
		c.log.Debug("merged role taxonomy", zap.String("file", cfg.Taxonomy), zap.Int("roles", len(roles.Roles())))
	}
	return roles, nil
}

func engine(cfg *Config) *scoring.Engine {
	var opts []scoring.Option
	if cfg.MaxBulletRunes > 0 {
		opts = append(opts, scoring.WithMaxBulletRunes(cfg.MaxBulletRunes))
	}
	return scoring.NewEngine(opts...)
}

// scoreFile decodes and scores one resume file
func scoreFile(path string, eng *scoring.Engine, role *domain.TargetRole) (*domain.ATSScore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := resume.Decode(raw)
	if err != nil {
		return nil, err
	}
	return eng.Score(doc, role)
}
