package main

import (
	"github.com/spf13/cobra"

	"github.com/AK2k30/npm-web-scrapper/internal/scraper"
)

var quickSelectors []string

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Fetch a page over HTTP and chat about it",
	Long: `quick fetches the page without a browser, so only server-rendered markup
is seen. Pass --select label=selector (repeatable) to pick elements; without
it the title, headings, paragraphs, links and images are collected.

Example:
  web-scrap-ai quick --select headlines=h2.title --select prices=.price`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		selectors := make([]scraper.Selector, 0, len(quickSelectors))
		for _, s := range quickSelectors {
			sel, err := scraper.ParseSelector(s)
			if err != nil {
				return err
			}
			selectors = append(selectors, sel)
		}
		return newApp(cmd.Context()).Quick(cmd.Context(), selectors)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Chat about a previously scraped JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		return newApp(cmd.Context()).Chat(cmd.Context(), name)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store API keys for every provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return newApp(cmd.Context()).Setup()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scraped JSON files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return newApp(cmd.Context()).List()
	},
}

func init() {
	quickCmd.Flags().StringArrayVar(&quickSelectors, "select", nil, "label=selector pair to extract (repeatable)")

	rootCmd.AddCommand(quickCmd, chatCmd, setupCmd, listCmd)
}
