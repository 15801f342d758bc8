package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/locators"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration and the locator tables as YAML",
	RunE:  runConfig,
}

var withLocatorsFlag bool

func init() {
	configCmd.Flags().BoolVar(&withLocatorsFlag, "locators", true, "Include the locator tables")
}

type configDump struct {
	Config   configView                             `yaml:"config"`
	Locators map[string]map[string]locators.Locator `yaml:"locators,omitempty"`
}

type configView struct {
	TestDir       string            `yaml:"testDir"`
	Timeout       string            `yaml:"timeout"`
	ExpectTimeout string            `yaml:"expectTimeout"`
	FullyParallel bool              `yaml:"fullyParallel"`
	ForbidOnly    bool              `yaml:"forbidOnly"`
	Retries       int               `yaml:"retries"`
	Workers       int               `yaml:"workers"`
	Grep          string            `yaml:"grep,omitempty"`
	Reporters     []config.Reporter `yaml:"reporter"`
	OutputDir     string            `yaml:"outputDir"`
	LogLevel      string            `yaml:"logLevel"`
	Use           useView           `yaml:"use"`
	Projects      []projectView     `yaml:"projects"`
}

type useView struct {
	BaseURL    string `yaml:"baseURL"`
	Headless   bool   `yaml:"headless"`
	Trace      string `yaml:"trace"`
	Screenshot struct {
		Mode     string `yaml:"mode"`
		FullPage bool   `yaml:"fullPage"`
	} `yaml:"screenshot"`
	Video string `yaml:"video"`
}

type projectView struct {
	Name        string `yaml:"name"`
	BrowserName string `yaml:"browserName"`
	Device      string `yaml:"device,omitempty"`
}

func newConfigView(cfg *config.Config) configView {
	v := configView{
		TestDir:       cfg.TestDir,
		Timeout:       cfg.Timeout.String(),
		ExpectTimeout: cfg.ExpectTimeout.String(),
		FullyParallel: cfg.FullyParallel,
		ForbidOnly:    cfg.ForbidOnly,
		Retries:       cfg.Retries,
		Workers:       cfg.Workers,
		Reporters:     cfg.Reporters,
		OutputDir:     cfg.OutputDir,
		LogLevel:      cfg.LogLevel.String(),
		Projects: lo.Map(cfg.Projects, func(p config.Project, _ int) projectView {
			return projectView{Name: p.Name, BrowserName: p.BrowserName, Device: p.Device}
		}),
	}
	if cfg.Grep != nil {
		v.Grep = cfg.Grep.String()
	}
	v.Use.BaseURL = cfg.Use.BaseURL
	v.Use.Headless = cfg.Use.Headless
	v.Use.Trace = string(cfg.Use.Trace)
	v.Use.Screenshot.Mode = string(cfg.Use.Screenshot.Mode)
	v.Use.Screenshot.FullPage = cfg.Use.Screenshot.FullPage
	v.Use.Video = string(cfg.Use.Video)
	return v
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := locators.Validate(); err != nil {
		return err
	}

	dump := configDump{Config: newConfigView(cfg)}
	if withLocatorsFlag {
		dump.Locators = locators.All()
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return enc.Close()
}
