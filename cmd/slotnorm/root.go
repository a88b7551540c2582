package main

import (
	"fmt"
	"path/filepath"

	slotnormalizer "github.com/baditaflorin/go_slot_normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/app"
	"github.com/baditaflorin/go_slot_normalizer/internal/config"
	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds state shared by every subcommand.
type cli struct {
	v       *viper.Viper
	cfgFile string

	cfg     *config.Config
	mapping *app.Mapping
	logger  l.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "slotnorm",
		Short: "Normalize dialogue utterances and slot annotations",
		Long: `slotnorm canonicalizes task-oriented dialogue data: it cleans utterance
text, rewrites times to HH:MM and corrects per-domain slot values.

Examples:
  slotnorm text "I want a Guesthouse/B&B"
  slotnorm time "leave after 5pm"
  slotnorm slot hotel "price range" moderately
  slotnorm batch data.jsonl --output clean.jsonl`,
		SilenceUsage:      true,
		PersistentPreRunE: c.load,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.logger != nil {
				return c.logger.Close()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	flags.String("policy", "", `handling of "not mentioned": drop or keep`)
	flags.String("mapping", "", "YAML file with slot_names and substitutions")
	flags.String("log-file", "", "log file path (default stderr)")
	flags.Bool("log-json", false, "write logs as JSON")

	c.v.BindPFlag("not_mentioned", flags.Lookup("policy"))
	c.v.BindPFlag("mapping_file", flags.Lookup("mapping"))
	c.v.BindPFlag("log.file", flags.Lookup("log-file"))
	c.v.BindPFlag("log.json", flags.Lookup("log-json"))

	rootCmd.AddCommand(
		c.newTextCmd(),
		c.newTimeCmd(),
		c.newSlotCmd(),
		c.newBatchCmd(),
	)
	return rootCmd
}

// load reads configuration, the slot mapping and sets up logging.
func (c *cli) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}

	baseDir := ""
	if c.cfgFile != "" {
		baseDir = filepath.Dir(c.cfgFile)
	}
	m, err := app.LoadMapping(cfg, baseDir)
	if err != nil {
		return fmt.Errorf("failed to load slot mapping: %w", err)
	}

	lg, err := app.NewLoggerTo(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.mapping = m
	c.logger = lg
	return nil
}

func (c *cli) normalizer() (*slotnormalizer.Normalizer, error) {
	return app.NewNormalizer(c.cfg, c.mapping, c.logger)
}
