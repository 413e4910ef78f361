package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [record-id]",
	Short: "Scrape website contact details for the last search's results",
	Long:  "Without arguments, scrapes every record that has a website and no contact details yet. With a record id, retries that single record even after a prior failure.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if len(args) == 1 {
			id := args[0]
			if err := env.Scraper.One(ctx, id); err != nil {
				return err
			}
			saveResults(ctx, env)
			printContactInfo(env.Search.Results(), id)
			return nil
		}

		summary := env.Scraper.All(ctx)
		saveResults(ctx, env)

		zap.L().Info("scrape finished",
			zap.Int("attempted", summary.Attempted),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
		)
		fmt.Printf("scraped %d records: %d succeeded, %d failed, %d skipped\n",
			summary.Attempted, summary.Succeeded, summary.Failed, summary.Skipped)
		return nil
	},
}

func printContactInfo(records []model.BusinessRecord, id string) {
	for _, rec := range records {
		if rec.ID != id || rec.ContactInfo == nil {
			continue
		}
		fmt.Printf("%s\n", rec.Name)
		for _, email := range rec.ContactInfo.Emails {
			fmt.Printf("  email: %s\n", email)
		}
		for _, phone := range rec.ContactInfo.Phones {
			fmt.Printf("  phone: %s\n", phone)
		}
		for _, link := range rec.ContactInfo.SocialLinks {
			fmt.Printf("  social: %s\n", link)
		}
		return
	}
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
