package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riskcheck/console/internal/pagination"
)

// PageSize is how many rows every listing shows.
const PageSize = 10

func writeTable(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

// pager renders "Page 2 of 5: 1 [2] 3 4 5"; empty when there is one page.
func pager(p pagination.Page) string {
	if p.TotalPages() <= 1 {
		return ""
	}
	nums := make([]string, 0, pagination.DefaultWindow)
	for _, n := range p.Window(pagination.DefaultWindow) {
		if n == p.Current {
			nums = append(nums, "["+strconv.Itoa(n)+"]")
		} else {
			nums = append(nums, strconv.Itoa(n))
		}
	}
	return fmt.Sprintf("Page %d of %d: %s", p.Current, p.TotalPages(), strings.Join(nums, " "))
}

// pageArg parses an optional 1-based page number.
func pageArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 1, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page %q", args[i])
	}
	return n, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatTime(*t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
