package listing

import (
	"reflect"
	"testing"
)

type record struct {
	ID       string
	Status   string
	Priority string
	Title    string
}

var records = []record{
	{ID: "#1", Status: "Open", Priority: "High", Title: "VPN down"},
	{ID: "#2", Status: "Closed", Priority: "Low", Title: "Printer jam"},
	{ID: "#3", Status: "Open", Priority: "Low", Title: "Email bounce"},
	{ID: "#4", Status: "Waiting", Priority: "High", Title: "New laptop"},
}

func ids(rs []record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestFilterConjunction(t *testing.T) {
	got := Filter(records,
		Equals("Open", func(r record) string { return r.Status }),
		Equals("Low", func(r record) string { return r.Priority }),
	)

	if want := []string{"#3"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("conjunction = %v, want %v", ids(got), want)
	}
}

func TestFilterAllSentinelIsIdentity(t *testing.T) {
	got := Filter(records,
		Equals(All, func(r record) string { return r.Status }),
		Equals("", func(r record) string { return r.Priority }),
		Search("", func(r record) []string { return []string{r.Title} }),
	)

	if !reflect.DeepEqual(got, records) {
		t.Errorf("inactive filters changed the record set: %v", ids(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter(records,
		Equals("High", func(r record) string { return r.Priority }),
	)

	if want := []string{"#1", "#4"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("order = %v, want %v", ids(got), want)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(records,
		Search("PRINT", func(r record) []string { return []string{r.ID, r.Title} }),
	)

	if want := []string{"#2"}; !reflect.DeepEqual(ids(got), want) {
		t.Errorf("search = %v, want %v", ids(got), want)
	}
}

func TestSearchNoMatchYieldsEmpty(t *testing.T) {
	got := Filter(records,
		Search("zzzzz", func(r record) []string { return []string{r.Title} }),
	)

	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", ids(got))
	}
}

func TestPaginateWindows(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     []string
	}{
		{"first page", 1, 2, []string{"#1", "#2"}},
		{"second page", 2, 2, []string{"#3", "#4"}},
		{"short last page", 2, 3, []string{"#4"}},
		{"page past end", 5, 2, nil},
		{"page below one clamps", 0, 2, []string{"#1", "#2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(records, tt.page, tt.pageSize)
			if !reflect.DeepEqual(ids(got), tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("Paginate(%d, %d) = %v, want %v",
					tt.page, tt.pageSize, ids(got), tt.want)
			}
		})
	}
}

func TestPaginatePartitions(t *testing.T) {
	// Every record appears on exactly one page.
	seen := make(map[string]int)
	pageSize := 3
	for page := 1; page <= TotalPages(len(records), pageSize); page++ {
		for _, r := range Paginate(records, page, pageSize) {
			seen[r.ID]++
		}
	}

	if len(seen) != len(records) {
		t.Fatalf("pages covered %d records, want %d", len(seen), len(records))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("record %s appeared on %d pages", id, n)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count    int
		pageSize int
		want     int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{41, 10, 5},
		{10, 0, 1},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d",
				tt.count, tt.pageSize, got, tt.want)
		}
	}
}

func TestPagerResetRules(t *testing.T) {
	p := NewPager(5)
	p.Next(50)
	p.Next(50)
	if p.Page != 3 {
		t.Fatalf("page = %d, want 3", p.Page)
	}

	p.Reset()
	if p.Page != 1 {
		t.Errorf("Reset left page at %d", p.Page)
	}

	p.Next(50)
	p.SetPageSize(20)
	if p.Page != 1 {
		t.Errorf("SetPageSize left page at %d", p.Page)
	}
	if p.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", p.PageSize)
	}
}

func TestPagerNavigationClamps(t *testing.T) {
	p := NewPager(10)

	p.Prev()
	if p.Page != 1 {
		t.Errorf("Prev below first page moved to %d", p.Page)
	}

	p.Last(25)
	if p.Page != 3 {
		t.Errorf("Last = %d, want 3", p.Page)
	}

	p.Next(25)
	if p.Page != 3 {
		t.Errorf("Next past last page moved to %d", p.Page)
	}

	p.Clamp(5)
	if p.Page != 1 {
		t.Errorf("Clamp after shrink = %d, want 1", p.Page)
	}
}

func TestWindowEmptyInput(t *testing.T) {
	p := NewPager(5)
	if got := Window([]record(nil), p); len(got) != 0 {
		t.Errorf("window over empty input = %v", got)
	}
}
