package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/imobly/imobly/internal/property"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(properties []*property.Property) error {
	if len(properties) == 0 {
		fmt.Println("No properties found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tCATEGORY\tPRICE\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t--------\t--------\t-----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, p := range properties {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%s\t%s\n",
			shortID(p.ID), truncate(p.Title, 32), truncate(p.Location, 24),
			p.Category, formatPrice(int64(p.Price)), p.Status); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d properties\n", len(properties))
	return nil
}

// printStats prints aggregate statistics in text format.
func printStats(s *property.Stats) {
	fmt.Printf("Properties:  %d\n", s.TotalProperties)
	fmt.Printf("Sales:       %d\n", s.TotalSales)
	fmt.Printf("Revenue:     $%s\n", formatPrice(int64(s.TotalRevenue)))
	fmt.Printf("Views:       %d\n", s.TotalViews)
	fmt.Printf("Leads:       %d\n", s.TotalLeads)

	if len(s.ByCategory) > 0 {
		fmt.Println("\nBy category:")
		printCountMap(s.ByCategory)
	}
	if len(s.ByStatus) > 0 {
		fmt.Println("\nBy status:")
		printCountMap(s.ByStatus)
	}
}

func printCountMap(m map[string]int64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-12s %d\n", k, m[k])
	}
}

// formatPrice formats a dollar amount as a string with commas.
func formatPrice(dollars int64) string {
	s := fmt.Sprintf("%d", dollars)

	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// shortID returns the first UUID segment, enough to identify a row.
func shortID(id string) string {
	if idx := strings.Index(id, "-"); idx > 0 {
		return id[:idx]
	}
	return id
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
