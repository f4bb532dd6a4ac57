package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"flightassist-service/internal/domain/repository"
	"flightassist-service/internal/infrastructure/persistence"
	repo "flightassist-service/internal/interface/repository"
	"flightassist-service/internal/usecase"
)

// migrateCmd creates or updates the relational schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDB(); err != nil {
			return err
		}
		log.Info("Migration completed")
		return nil
	},
}

// seedCmd loads the sample airline directory
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample airline directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		resolver := usecase.NewAirlineResolver(repo.NewGormAirlineRepository(db), nil, usecase.SystemClock, log)

		n, err := resolver.Seed(cmd.Context(), usecase.SampleAirlines())
		if err != nil {
			return fmt.Errorf("failed to seed airlines: %w", err)
		}
		fmt.Printf("Inserted %d airlines\n", n)
		return nil
	},
}

// sweepCmd deactivates expired contexts once
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Deactivate expired search contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}
		contextRepo, closeContexts, err := repo.OpenContextRepository(ctx, cfg, db)
		if err != nil {
			return err
		}
		defer closeContexts()

		store := usecase.NewContextStore(contextRepo, cfg.ContextTTL, cfg.ContextMaxPerUser, usecase.SystemClock, log)
		n, err := store.SweepExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Deactivated %d contexts\n", n)
		return nil
	},
}

// statsCmd prints airline detection statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show airline detection statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}

		var queryLogRepo repository.QueryLogRepository
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := persistence.NewMongoClient(mctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Warn("MongoDB unavailable, showing airline usage only", "error", err)
		} else {
			defer client.Disconnect(context.Background())
			queryLogRepo = repo.NewMongoQueryLogRepository(persistence.GetDatabase(client, cfg.MongoDB))
		}

		resolver := usecase.NewAirlineResolver(repo.NewGormAirlineRepository(db), queryLogRepo, usecase.SystemClock, log)
		stats, err := resolver.Stats(ctx)
		if err != nil {
			return err
		}

		if outputType == "json" {
			return printJSON(stats)
		}

		fmt.Printf("Total queries: %d  Successful: %d  Success rate: %.1f%%\n\n",
			stats.TotalQueries, stats.SuccessfulQueries, stats.SuccessRate)

		rows := [][]string{}
		for _, a := range stats.PopularAirlines {
			rows = append(rows, []string{a.Name, fmt.Sprintf("%d", a.UsageCount)})
		}
		printTable([]string{"Airline", "Usage"}, rows)

		rows = [][]string{}
		for _, q := range stats.CommonQueries {
			rows = append(rows, []string{q.QueryText, fmt.Sprintf("%d", q.Count)})
		}
		printTable([]string{"Query", "Count"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, sweepCmd, statsCmd)
}
