package db

import (
	"fmt"
	"sort"
)

// TableStats is one table's row count.
type TableStats struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// DatabaseStats summarizes the store for the debug surface. Tables are
// sorted by row count, largest first.
type DatabaseStats struct {
	Tables      []TableStats `json:"tables"`
	TotalRows   int64        `json:"total_rows"`
	PageCount   int64        `json:"page_count"`
	PageSize    int64        `json:"page_size"`
	TotalSizeMB float64      `json:"total_size_mb"`
}

// GetDatabaseStats reports per-table row counts and the database size.
func (db *DB) GetDatabaseStats() (*DatabaseStats, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := &DatabaseStats{Tables: []TableStats{}}
	for _, name := range names {
		var count int64
		// Names come from sqlite_master, not user input.
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count rows of %s: %w", name, err)
		}
		stats.Tables = append(stats.Tables, TableStats{Name: name, RowCount: count})
		stats.TotalRows += count
	}
	sort.Slice(stats.Tables, func(i, j int) bool {
		if stats.Tables[i].RowCount != stats.Tables[j].RowCount {
			return stats.Tables[i].RowCount > stats.Tables[j].RowCount
		}
		return stats.Tables[i].Name < stats.Tables[j].Name
	})

	if err := db.QueryRow("PRAGMA page_count").Scan(&stats.PageCount); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&stats.PageSize); err != nil {
		return nil, fmt.Errorf("page size: %w", err)
	}
	stats.TotalSizeMB = float64(stats.PageCount*stats.PageSize) / (1024 * 1024)

	return stats, nil
}
