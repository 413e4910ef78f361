package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscout/leadscout/internal/model"
	"github.com/leadscout/leadscout/internal/search"
)

var (
	searchLocation string
	searchPageSize int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for businesses with a free-text query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		if searchLocation != "" {
			cfg.Search.Location = searchLocation
		}
		if searchPageSize > 0 {
			cfg.Search.PageSize = searchPageSize
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		records, err := env.Search.Search(ctx, query)
		if err != nil {
			if eris.Is(err, search.ErrEmptyQuery) {
				return eris.New("query must not be empty")
			}
			return err
		}

		located := 0
		for i := range records {
			if records[i].HasCoordinates() {
				located++
			}
		}
		zap.L().Info("search complete",
			zap.String("query", query),
			zap.Int("records", len(records)),
			zap.Int("located", located),
		)

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		printRecords(env.Search.VisibleRecords(), len(records))
		return nil
	},
}

func printRecords(visible []model.BusinessRecord, total int) {
	for i, rec := range visible {
		fmt.Printf("%2d. %s\n", i+1, rec.Name)
		fmt.Printf("    %s\n", rec.Address)
		if rec.Category != "" || rec.Phone != "" {
			fmt.Printf("    %s\n", strings.TrimSpace(rec.Category+"  "+rec.Phone))
		}
		if rec.Rating != nil {
			if rec.ReviewCount != nil {
				fmt.Printf("    %.1f stars (%d reviews)\n", *rec.Rating, *rec.ReviewCount)
			} else {
				fmt.Printf("    %.1f stars\n", *rec.Rating)
			}
		}
		if rec.WebsiteURL != "" {
			fmt.Printf("    %s\n", rec.WebsiteURL)
		}
		fmt.Printf("    id: %s\n", rec.ID)
	}
	if total > len(visible) {
		fmt.Printf("\n%d of %d results shown\n", len(visible), total)
	}
}

func init() {
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "bias results toward a location")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 0, "results per page (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print full result set as JSON")
	rootCmd.AddCommand(searchCmd)
}
