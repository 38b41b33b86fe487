package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dtnitsch/clickwatch/internal/app"
	"github.com/dtnitsch/clickwatch/models"
	dbpkg "github.com/dtnitsch/clickwatch/pkg/db"
	"github.com/urfave/cli/v2"
)

// AccessesAction lists the most recent fetch attempts recorded in the audit log.
func AccessesAction(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load config: %v", err), app.ExitFailure)
	}
	if cfg.AuditDB == "" {
		return cli.Exit("audit log is disabled: set audit_db in the config or CLICKWATCH_AUDIT_DB", app.ExitFailure)
	}

	database, err := dbpkg.Open(cfg.AuditDB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var accesses []dbpkg.AccessRecord
	if rawURL := c.String("url"); rawURL != "" {
		accesses, err = LatestAccess(database, rawURL)
	} else {
		accesses, err = database.ListAccesses(c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list accesses: %w", err)
	}

	return app.Write(c, os.Stdout, accesses, FormatAccesses(accesses))
}

// LatestAccess returns the most recent attempt for rawURL, or nothing if the URL was
// never fetched.
func LatestAccess(database *dbpkg.DB, rawURL string) ([]dbpkg.AccessRecord, error) {
	urlID, err := database.GetURLID(rawURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record, err := database.GetLastAccess(urlID)
	if err != nil || record == nil {
		return nil, err
	}
	return []dbpkg.AccessRecord{*record}, nil
}

// FormatAccesses renders accesses as a fixed-width table.
func FormatAccesses(accesses []dbpkg.AccessRecord) []string {
	if len(accesses) == 0 {
		return []string{"No fetches recorded"}
	}

	lines := []string{
		fmt.Sprintf("%-6s %-20s %-7s %-8s %-14s %s", "ID", "Accessed", "Status", "Success", "Error", "URL"),
		strings.Repeat("-", 100),
	}
	for _, a := range accesses {
		errType := a.ErrorType
		if errType == "" {
			errType = "-"
		}
		lines = append(lines, fmt.Sprintf("%-6d %-20s %-7d %-8t %-14s %s",
			a.AccessID,
			a.AccessedAt.Format("2006-01-02 15:04:05"),
			a.StatusCode,
			a.Success,
			errType,
			a.URL,
		))
	}
	return append(lines, "", fmt.Sprintf("Total: %d fetches", len(accesses)))
}
