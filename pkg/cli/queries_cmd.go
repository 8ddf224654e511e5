package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"querypulse/internal/apiclient"
	"querypulse/internal/queryproc"
)

func newQueriesCmd(client *apiclient.Client, database *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Inspect captured queries",
	}

	cmd.AddCommand(newQueriesListCmd(client, database))
	cmd.AddCommand(newQueriesShowCmd(client))
	return cmd
}

func newQueriesListCmd(client *apiclient.Client, database *string) *cobra.Command {
	var (
		search    string
		status    string
		timeRange string
		maxMS     int
		sortField string
		direction string
		page      int
		pageSize  int
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captured queries with filtering, sorting, and pagination",
		Long:  "Fetch the slow-query feed for a database and run it through the same search, filter, sort, and pagination pipeline the web console uses.",
		Example: `  # Slowest queries of the last 24 hours
  qpulse queries list --db db-1

  # Slow UPDATEs in the last week, oldest first
  qpulse queries list --db db-1 --search update --status slow --range 7d --sort timestamp --direction asc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *database == "" {
				return fmt.Errorf("no database selected: pass --db or run 'qpulse db use'")
			}

			filters := queryproc.DefaultFilters()
			switch queryproc.StatusFilter(status) {
			case queryproc.StatusAll, queryproc.StatusSlow, queryproc.StatusNormal:
				filters.Status = queryproc.StatusFilter(status)
			default:
				return fmt.Errorf("unsupported status %q: use all, slow, or normal", status)
			}
			switch queryproc.TimeRange(timeRange) {
			case queryproc.RangeHour, queryproc.Range6H, queryproc.RangeDay, queryproc.RangeWeek, queryproc.RangeMonth:
				filters.TimeRange = queryproc.TimeRange(timeRange)
			default:
				return fmt.Errorf("unsupported range %q: use 1h, 6h, 24h, 7d, or 30d", timeRange)
			}
			if maxMS < 0 || maxMS > queryproc.MaxExecutionTimeMS {
				return fmt.Errorf("--max-ms must be between 0 and %d", queryproc.MaxExecutionTimeMS)
			}
			filters.ExecutionTimeMaxMS = maxMS

			sortState := queryproc.SortState{
				Field:     queryproc.SortField(sortField),
				Direction: queryproc.SortDirection(direction),
			}
			switch sortState.Field {
			case queryproc.SortExecutionTime, queryproc.SortTimestamp:
			default:
				return fmt.Errorf("unsupported sort field %q: use execution_time or timestamp", sortField)
			}
			switch sortState.Direction {
			case queryproc.SortAsc, queryproc.SortDesc:
			default:
				return fmt.Errorf("unsupported direction %q: use asc or desc", direction)
			}

			pageState := queryproc.DefaultPage().WithPageSize(pageSize).WithPage(page)
			if pageState.PageSize != pageSize {
				return fmt.Errorf("unsupported page size %d: use one of %s", pageSize, pageSizeChoices())
			}

			records, err := client.SlowQueries(cmd.Context(), *database, limit)
			if err != nil {
				return err
			}

			result := queryproc.Process(records, search, filters, sortState, pageState, time.Now())

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, map[string]interface{}{
					"items":       result.Items,
					"total_count": result.TotalFilteredCount,
					"total_pages": result.TotalPages,
					"page":        result.Page,
					"page_size":   result.PageSize,
				})
			}

			rows := make([][]string, 0, len(result.Items))
			for _, rec := range result.Items {
				rows = append(rows, []string{
					rec.ID,
					truncate(collapseWhitespace(rec.SQLText), 60),
					fmt.Sprintf("%.0f", rec.ExecutionTimeMS),
					string(rec.Status),
					rec.Timestamp.Format(time.RFC3339),
				})
			}
			PrintTable(os.Stdout, []string{"id", "query", "ms", "status", "timestamp"}, rows)
			fmt.Fprintf(os.Stdout, "\nPage %d of %d (%d matched)\n", result.Page, result.TotalPages, result.TotalFilteredCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Substring match against SQL text (case-insensitive)")
	cmd.Flags().StringVar(&status, "status", "all", "Status filter (all, slow, normal)")
	cmd.Flags().StringVar(&timeRange, "range", "24h", "Time range (1h, 6h, 24h, 7d, 30d)")
	cmd.Flags().IntVar(&maxMS, "max-ms", queryproc.MaxExecutionTimeMS, "Maximum execution time in milliseconds")
	cmd.Flags().StringVar(&sortField, "sort", "execution_time", "Sort field (execution_time, timestamp)")
	cmd.Flags().StringVar(&direction, "direction", "desc", "Sort direction (asc, desc)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 25, "Page size")
	cmd.Flags().IntVar(&limit, "limit", 500, "Maximum records to fetch before filtering")
	return cmd
}

func newQueriesShowCmd(client *apiclient.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show <query-id>",
		Short: "Show a query's statistics and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := client.QueryDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, detail)
			}

			PrintDetail(os.Stdout, map[string]interface{}{
				"id":         detail.ID,
				"status":     string(detail.Status),
				"last_ms":    detail.ExecutionTimeMS,
				"executions": detail.ExecutionCount,
				"avg_ms":     detail.AvgTimeMS,
				"p95_ms":     detail.P95TimeMS,
				"captured":   detail.Timestamp.Format(time.RFC3339),
			})
			fmt.Fprintf(os.Stdout, "\n%s\n", detail.SQLText)

			if len(detail.Recommendations) > 0 {
				fmt.Fprintln(os.Stdout)
				rows := make([][]string, 0, len(detail.Recommendations))
				for _, rec := range detail.Recommendations {
					rows = append(rows, []string{
						rec.ID,
						rec.Type,
						string(rec.Status),
						truncate(rec.Description, 70),
					})
				}
				PrintTable(os.Stdout, []string{"id", "type", "status", "description"}, rows)
			}
			return nil
		},
	}
}

func pageSizeChoices() string {
	parts := make([]string, 0, len(queryproc.PageSizes))
	for _, size := range queryproc.PageSizes {
		parts = append(parts, strconv.Itoa(size))
	}
	return strings.Join(parts, ", ")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
