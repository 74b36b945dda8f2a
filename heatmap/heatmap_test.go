package heatmap

import (
	"testing"
	"time"

	gitden "github.com/gitden/gitden-go"
)

func TestLayoutEmpty(t *testing.T) {
	t.Parallel()
	grid, err := Layout(nil)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(grid.Weeks) != 0 || grid.Total != 0 {
		t.Errorf("empty series produced %+v", grid)
	}
}

func TestLayoutAlignsToSundayColumns(t *testing.T) {
	t.Parallel()
	// 2025-04-02 is a Wednesday, 2025-04-08 a Tuesday: the span crosses one
	// week boundary, so the grid is two full Sunday-to-Saturday columns.
	grid, err := Layout([]gitden.ContributionPoint{
		{Date: "2025-04-02", Count: 2},
		{Date: "2025-04-08", Count: 5},
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(grid.Weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(grid.Weeks))
	}
	if grid.Total != 7 {
		t.Errorf("total = %d, want 7", grid.Total)
	}

	first := grid.Weeks[0][0]
	if first.Date.Weekday() != time.Sunday {
		t.Errorf("first cell is %v, want Sunday", first.Date.Weekday())
	}
	if first.InRange {
		t.Error("padding cell before the first point marked in range")
	}

	wed := grid.Weeks[0][3]
	if got := wed.Date.Format("2006-01-02"); got != "2025-04-02" {
		t.Fatalf("wednesday cell date = %s", got)
	}
	if wed.Count != 2 || !wed.InRange {
		t.Errorf("wednesday cell = %+v", wed)
	}

	tue := grid.Weeks[1][2]
	if tue.Count != 5 || !tue.InRange {
		t.Errorf("tuesday cell = %+v", tue)
	}
	if last := grid.Weeks[1][6]; last.InRange {
		t.Error("padding cell after the last point marked in range")
	}

	// Every cell date must be midnight UTC; a local-zone parse would shift
	// the whole grid for non-UTC machines.
	for _, w := range grid.Weeks {
		for _, c := range w {
			if c.Date.Location() != time.UTC {
				t.Fatalf("cell %v not in UTC", c.Date)
			}
			if h, m, s := c.Date.Clock(); h != 0 || m != 0 || s != 0 {
				t.Fatalf("cell %v not at midnight", c.Date)
			}
		}
	}
}

func TestLayoutAccumulatesDuplicates(t *testing.T) {
	t.Parallel()
	grid, err := Layout([]gitden.ContributionPoint{
		{Date: "2025-04-02", Count: 1},
		{Date: "2025-04-02", Count: 3},
	})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if grid.Total != 4 {
		t.Errorf("total = %d, want 4", grid.Total)
	}
	if cell := grid.Weeks[0][3]; cell.Count != 4 {
		t.Errorf("cell count = %d, want 4", cell.Count)
	}
}

func TestLayoutRejectsBadDate(t *testing.T) {
	t.Parallel()
	if _, err := Layout([]gitden.ContributionPoint{{Date: "04/02/2025", Count: 1}}); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()
	got, err := FormatDate("2025-04-05")
	if err != nil {
		t.Fatalf("FormatDate: %v", err)
	}
	if got != "Apr 5, 2025" {
		t.Errorf("FormatDate = %q", got)
	}
	if _, err := FormatDate("nope"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestTooltip(t *testing.T) {
	t.Parallel()
	if got := Tooltip(gitden.ContributionPoint{Date: "2025-04-05", Count: 1}); got != "1 contribution on Apr 5, 2025" {
		t.Errorf("Tooltip = %q", got)
	}
	if got := Tooltip(gitden.ContributionPoint{Date: "2025-04-05", Count: 3}); got != "3 contributions on Apr 5, 2025" {
		t.Errorf("Tooltip = %q", got)
	}
	if got := Tooltip(gitden.ContributionPoint{Date: "bad", Count: 3}); got != "No contributions" {
		t.Errorf("Tooltip = %q", got)
	}
}
