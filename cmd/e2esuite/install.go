package main

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/networkteam/e2esuite/config"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Playwright driver and the browsers of the configured projects",
	RunE:  runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	browsers := lo.Uniq(lo.Map(cfg.Projects, func(p config.Project, _ int) string { return p.BrowserName }))
	logger := cfg.Logger(cmd.ErrOrStderr())
	logger.Info("Installing browsers", "browsers", browsers)

	err = playwright.Install(&playwright.RunOptions{
		Browsers: browsers,
		Verbose:  true,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("installing playwright: %w", err)
	}
	return nil
}
