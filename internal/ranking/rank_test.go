package ranking

import (
	"testing"

	"kinocache/internal/douban"
)

func intPtr(v int) *int { return &v }

func ids(subjects []douban.Subject) []string {
	out := make([]string, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, s.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankYearFilter(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "exact", Year: "2014"},
		{ID: "plus-one", Year: "2015"},
		{ID: "minus-one", Year: "2013"},
		{ID: "too-old", Year: "2010"},
		{ID: "no-year"},
		{ID: "garbage-year", Year: "n/a"},
	}

	got := ids(Rank(subjects, intPtr(2014), nil))
	want := []string{"exact", "plus-one", "minus-one", "no-year", "garbage-year"}
	if !equal(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRankNoYearKeepsEverything(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "a", Year: "1990"},
		{ID: "b", Year: "2020"},
		{ID: "c"},
	}
	got := ids(Rank(subjects, nil, nil))
	if !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Rank without year = %v", got)
	}
}

func TestRankSeasonPartitionStable(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "other-1", Title: "纸牌屋"},
		{ID: "match-1", Title: "纸牌屋 第二季"},
		{ID: "other-2", Title: "纸牌屋 第一季"},
		{ID: "match-2", Title: "新纸牌屋 第二季"},
	}

	got := ids(Rank(subjects, nil, intPtr(2)))
	want := []string{"match-1", "match-2", "other-1", "other-2"}
	if !equal(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

func TestRankSeasonZero(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "plain", Title: "超感猎杀"},
		{ID: "special", Title: "超感猎杀 第零季"},
	}
	got := ids(Rank(subjects, nil, intPtr(0)))
	if !equal(got, []string{"special", "plain"}) {
		t.Errorf("Rank = %v", got)
	}
}

func TestRankSeasonOutOfRange(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "a", Title: "某剧 第二季"},
		{ID: "b", Title: "某剧"},
	}
	got := ids(Rank(subjects, nil, intPtr(42)))
	if !equal(got, []string{"a", "b"}) {
		t.Errorf("out-of-range season must not reorder, got %v", got)
	}
}

func TestRankPreservesMultiset(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "1", Title: "剧 第三季", Year: "2016"},
		{ID: "2", Title: "剧", Year: "2016"},
		{ID: "3", Title: "剧 第三季", Year: "2016"},
	}
	got := Rank(subjects, intPtr(2016), intPtr(3))
	if len(got) != 3 {
		t.Fatalf("length = %d, want 3", len(got))
	}
	counts := map[string]int{}
	for _, s := range got {
		counts[s.ID]++
	}
	for _, id := range []string{"1", "2", "3"} {
		if counts[id] != 1 {
			t.Errorf("candidate %s appears %d times", id, counts[id])
		}
	}
	if got[0].ID != "1" || got[1].ID != "3" || got[2].ID != "2" {
		t.Errorf("partition order = %v", ids(got))
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	subjects := []douban.Subject{
		{ID: "x", Title: "剧"},
		{ID: "y", Title: "剧 第一季"},
	}
	_ = Rank(subjects, nil, intPtr(1))
	if subjects[0].ID != "x" || subjects[1].ID != "y" {
		t.Errorf("input slice mutated: %v", ids(subjects))
	}
}
