package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"flightassist-service/internal/infrastructure/config"
	"flightassist-service/internal/infrastructure/persistence"
	repo "flightassist-service/internal/interface/repository"
	"flightassist-service/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.ZapLogger

	sqlitePath string
	outputType string
)

// rootCmd is the admin entry point
var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "FlightAssist administration",
	Long:          `Maintenance commands for the FlightAssist service: schema, airline seed, context sweep and diagnostics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig()
		if err != nil {
			return err
		}
		cfg = c
		log = logger.NewLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "use a SQLite file instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVarP(&outputType, "output", "o", "table", "output format: table or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDB connects to SQLite when --sqlite is set, otherwise to PostgreSQL, and migrates
func openDB() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if sqlitePath != "" {
		db, err = persistence.NewSQLiteDB(sqlitePath)
	} else {
		db, err = persistence.NewPostgresDB(cfg.PostgresURI)
	}
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

func printTable(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		Rows(rows...)

	fmt.Println(t)
	fmt.Println()
}
