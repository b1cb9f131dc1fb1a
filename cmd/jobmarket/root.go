package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"jobmarket/internal/app"
	"jobmarket/internal/config"
	"jobmarket/internal/service"
	"jobmarket/internal/tui"
)

type rootOptions struct {
	configPath string
	corpusPath string
	modelPath  string
	seed       int64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "jobmarket",
		Short: "Job market analysis and recommendation dashboard",
		Long:  "Browse a job-listings dataset, search it by title similarity, analyze skill gaps and match pasted resume text to the closest role.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	cmd.SilenceUsage = true
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file (uses ./config.yaml or ~/.config/jobmarket/config.yaml if not provided)")
	flags.StringVar(&opts.corpusPath, "corpus", "", "Override the job dataset path (.json, .csv, .db)")
	flags.StringVar(&opts.modelPath, "model", "", "Override the TF-IDF model path")
	flags.Int64Var(&opts.seed, "seed", 0, "Seed for job type fill-ins (0 uses the configured seed)")

	cmd.AddCommand(
		newTUICmd(opts),
		newSearchCmd(opts),
		newCountriesCmd(opts),
		newCountryCmd(opts),
		newRemoteCmd(opts),
		newSkillsCmd(opts),
		newResumeCmd(opts),
	)
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	svc, err := loadService(cmd, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run()
	return err
}

func loadConfig(opts *rootOptions) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if opts.configPath == "" {
		var path string
		cfg, path, err = config.LoadDefault()
		if err == nil {
			log.Printf("using config %s", path)
		}
	} else {
		cfg, err = config.Load(opts.configPath)
	}
	if err != nil {
		return nil, err
	}
	if opts.corpusPath != "" {
		cfg.Data.CorpusPath = opts.corpusPath
	}
	if opts.modelPath != "" {
		cfg.Data.ModelPath = opts.modelPath
	}
	if opts.seed != 0 {
		cfg.Data.Seed = opts.seed
	}
	return cfg, cfg.Validate()
}

func loadService(cmd *cobra.Command, opts *rootOptions) (*service.DashboardService, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return app.Build(cmd.Context(), cfg, log.Default())
}
