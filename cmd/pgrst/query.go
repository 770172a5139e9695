package pgrst

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/edgeflare/pgrst/pkg/postgrest"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Read rows from a table or view",
	Long: `Builds a filtered read against a PostgREST endpoint and prints the JSON
response to stdout. Filters use PostgREST grammar, e.g. --filter age=gt.18`,
	Args: cobra.ExactArgs(1),
	Run:  runQuery,
}

func init() {
	f := queryCmd.Flags()
	f.StringP("select", "s", "", "Comma-separated list of columns to select")
	f.StringArrayP("filter", "f", nil, "Filter as column=operator.value (repeatable)")
	f.String("order", "", "Ordering as column[.asc|.desc][.nullsfirst|.nullslast]")
	f.Int("limit", -1, "Limit the number of returned rows")
	f.Int("offset", -1, "Skip the first n rows")
	f.String("count", "", "Count method: exact, planned or estimated")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) {
	client, err := newClient()
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	qb, err := client.From(args[0])
	if err != nil {
		log.Fatalf("Invalid table: %v", err)
	}

	if sel, _ := cmd.Flags().GetString("select"); sel != "" {
		qb.Select(strings.Split(sel, ",")...)
	}
	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, filter := range filters {
		column, op, value, err := parseFilterFlag(filter)
		if err != nil {
			log.Fatalf("Invalid filter %q: %v", filter, err)
		}
		qb.Filter(column, op, value)
	}
	if order, _ := cmd.Flags().GetString("order"); order != "" {
		column, asc, nullsFirst := parseOrderFlag(order)
		qb.Order(column, asc, nullsFirst)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit >= 0 {
		qb.Limit(limit)
	}
	if offset, _ := cmd.Flags().GetInt("offset"); offset >= 0 {
		qb.Offset(offset)
	}
	if count, _ := cmd.Flags().GetString("count"); count != "" {
		qb.Count(postgrest.CountMethod(count))
	}

	resp, err := qb.Execute(context.Background())
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}

	if resp.Count >= 0 {
		fmt.Fprintf(os.Stderr, "total rows: %d\n", resp.Count)
	}
	os.Stdout.Write(resp.Body)
	fmt.Println()
}

// parseFilterFlag splits "age=gt.18" into column, operator and value.
func parseFilterFlag(s string) (column, op, value string, err error) {
	column, rest, found := strings.Cut(s, "=")
	if !found || column == "" {
		return "", "", "", fmt.Errorf("expected column=operator.value")
	}
	op, value, found = strings.Cut(rest, ".")
	if !found || op == "" {
		return "", "", "", fmt.Errorf("expected column=operator.value")
	}
	return column, op, value, nil
}

// parseOrderFlag splits "created_at.desc.nullsfirst" into its parts. Direction
// defaults to ascending, nulls placement to last.
func parseOrderFlag(s string) (column string, asc, nullsFirst bool) {
	asc = true
	if strings.HasSuffix(s, ".nullsfirst") {
		s = strings.TrimSuffix(s, ".nullsfirst")
		nullsFirst = true
	} else if strings.HasSuffix(s, ".nullslast") {
		s = strings.TrimSuffix(s, ".nullslast")
	}
	if strings.HasSuffix(s, ".desc") {
		s = strings.TrimSuffix(s, ".desc")
		asc = false
	} else if strings.HasSuffix(s, ".asc") {
		s = strings.TrimSuffix(s, ".asc")
	}
	return s, asc, nullsFirst
}
