package trend

import (
	"fmt"
	"math"
	"testing"

	"github.com/julienpequegnot/sentimon/internal/palette"
	"github.com/julienpequegnot/sentimon/internal/record"
)

func stat(avg float64, count int, posts ...string) record.CategoryStat {
	return record.CategoryStat{AverageSentiment: avg, HasAverage: true, Count: count, PostIDs: posts}
}

func day(date string, cats map[string]record.CategoryStat) record.CategoryDay {
	for k, v := range cats {
		v.Key = k
		cats[k] = v
	}
	return record.CategoryDay{Date: date, Categories: cats}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateConstantSeries(t *testing.T) {
	var days []record.CategoryDay
	for i := 1; i <= 10; i++ {
		date := fmt.Sprintf("2024-01-%02d", i)
		days = append(days, day(date, map[string]record.CategoryStat{"exams": stat(0.1, 1)}))
	}

	series := Aggregate(days, record.ParseRange("2024-01-01", "2024-01-10"), 7)
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}

	s := series[0]
	if len(s.Points) != 10 || len(s.Moving) != 10 {
		t.Fatalf("expected 10 points, got %d/%d", len(s.Points), len(s.Moving))
	}
	for i, v := range s.Moving {
		if !almostEqual(v, 0.1) {
			t.Errorf("moving average at %d = %v, want 0.1", i, v)
		}
	}
	if s.Color != palette.Category("exams") {
		t.Errorf("unexpected colour %s", s.Color)
	}
}

func TestAggregateMovingAverageExcludesNonNumeric(t *testing.T) {
	var days []record.CategoryDay
	for i := 1; i <= 10; i++ {
		var avg any = float64(i)
		if i == 5 {
			avg = "n/a"
		}
		date := fmt.Sprintf("2024-01-%02d", i)
		days = append(days, record.NormalizeCategoryDay(date, map[string]any{
			"Exams": map[string]any{"averageSentiment": avg, "count": 1},
		}))
	}

	series := Aggregate(days, record.Range{}, 7)
	if len(series) != 1 || len(series[0].Points) != 10 {
		t.Fatalf("expected one series of 10 points, got %+v", series)
	}
	s := series[0]
	if s.Points[4].Valid {
		t.Error("non-numeric average should yield an invalid point")
	}

	want := []float64{1, 1.5, 2, 2.5, 2.5, 3.2, 23.0 / 6, 5, 37.0 / 6, 44.0 / 6}
	for i := range want {
		if !almostEqual(s.Moving[i], want[i]) {
			t.Errorf("moving average at %d = %v, want %v", i, s.Moving[i], want[i])
		}
	}
}

func TestAggregateMergesCaseVariants(t *testing.T) {
	days := []record.CategoryDay{
		day("2024-01-01", map[string]record.CategoryStat{
			"Exams": stat(0.5, 1, "p1"),
			"exams": stat(-0.1, 3, "p1", "p2"),
		}),
		day("2024-01-02", map[string]record.CategoryStat{
			"EXAMS": stat(0.2, 2, "p3"),
		}),
	}

	series := Aggregate(days, record.Range{}, 7)
	if len(series) != 1 {
		t.Fatalf("expected case variants to merge into 1 series, got %d", len(series))
	}
	s := series[0]
	if s.Category != "exams" {
		t.Errorf("expected lower-case category, got %s", s.Category)
	}
	if len(s.Points) != 2 {
		t.Fatalf("expected one point per date, got %d", len(s.Points))
	}

	first := s.Points[0]
	// (0.5*1 + -0.1*3) / 4
	if !almostEqual(first.Value, 0.05) {
		t.Errorf("expected weighted mean 0.05, got %v", first.Value)
	}
	if first.Count != 4 {
		t.Errorf("expected merged count 4, got %d", first.Count)
	}
	if len(first.PostIDs) != 2 {
		t.Errorf("expected deduplicated post ids, got %v", first.PostIDs)
	}
}

func TestAggregateFiltersByRange(t *testing.T) {
	days := []record.CategoryDay{
		day("2024-01-01", map[string]record.CategoryStat{"exams": stat(1, 1)}),
		day("2024-01-05", map[string]record.CategoryStat{"exams": stat(2, 1)}),
		day("2024-01-09", map[string]record.CategoryStat{"exams": stat(3, 1)}),
		day("not-a-date", map[string]record.CategoryStat{"exams": stat(4, 1)}),
	}

	series := Aggregate(days, record.ParseRange("2024-01-02", "2024-01-09"), 7)
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	dates := series[0].Dates()
	if len(dates) != 2 || dates[0] != "2024-01-05" || dates[1] != "2024-01-09" {
		t.Errorf("unexpected dates %v", dates)
	}
}

func TestAggregateSortedAscendingAndByCategory(t *testing.T) {
	days := []record.CategoryDay{
		day("2024-01-03", map[string]record.CategoryStat{"results": stat(1, 1), "academic": stat(1, 1)}),
		day("2024-01-01", map[string]record.CategoryStat{"results": stat(1, 1)}),
	}

	series := Aggregate(days, record.Range{}, 7)
	if len(series) != 2 || series[0].Category != "academic" || series[1].Category != "results" {
		t.Fatalf("unexpected series order: %+v", series)
	}
	pts := series[1].Points
	if pts[0].Date != "2024-01-01" || pts[1].Date != "2024-01-03" {
		t.Errorf("points not ascending: %v", series[1].Dates())
	}
}

func TestMovingAverageSkipsInvalid(t *testing.T) {
	points := []Point{
		{Value: 0, Valid: false},
		{Value: 1, Valid: true},
		{Value: 99, Valid: false},
		{Value: 3, Valid: true},
	}

	ma := MovingAverage(points, 2)
	want := []float64{0, 1, 1, 3}
	for i := range want {
		if !almostEqual(ma[i], want[i]) {
			t.Errorf("ma[%d] = %v, want %v", i, ma[i], want[i])
		}
	}
}

func TestMovingAverageShortWindow(t *testing.T) {
	points := []Point{{Value: 1, Valid: true}, {Value: 3, Valid: true}}
	ma := MovingAverage(points, 7)
	if !almostEqual(ma[0], 1) || !almostEqual(ma[1], 2) {
		t.Errorf("unexpected moving average %v", ma)
	}
}

func TestMergeCategory(t *testing.T) {
	d := record.CategoryDay{Date: "2024-01-01", Categories: map[string]record.CategoryStat{
		"Exams": {Key: "Exams", AverageSentiment: 0.4, HasAverage: true, PostIDs: []string{"p1"},
			Comments: map[string][]string{"p1": {"c1"}}},
		"exams": {Key: "exams", AverageSentiment: 0.2, HasAverage: true, PostIDs: []string{"p1", "p2"},
			Comments: map[string][]string{"p1": {"c1", "c2"}}},
		"career": {Key: "career", AverageSentiment: 1, HasAverage: true},
	}}

	st, ok := MergeCategory(d, "EXAMS")
	if !ok {
		t.Fatal("expected category to be found")
	}
	if !almostEqual(st.AverageSentiment, 0.3) {
		t.Errorf("expected plain mean 0.3 without counts, got %v", st.AverageSentiment)
	}
	if len(st.PostIDs) != 2 {
		t.Errorf("expected 2 unique post ids, got %v", st.PostIDs)
	}
	if len(st.Comments["p1"]) != 2 {
		t.Errorf("expected 2 unique comment ids, got %v", st.Comments)
	}

	if _, ok := MergeCategory(d, "facilities"); ok {
		t.Error("expected missing category to be reported")
	}
}

func TestMergeCategoryInvalidAverage(t *testing.T) {
	d := record.CategoryDay{Date: "2024-01-01", Categories: map[string]record.CategoryStat{
		"exams": {Key: "exams", Count: 2},
	}}
	st, ok := MergeCategory(d, "exams")
	if !ok || st.HasAverage {
		t.Errorf("expected found category with invalid average, got %+v", st)
	}
}

func TestAxisAndFind(t *testing.T) {
	series := []Series{
		{Category: "a", Points: []Point{{Date: "2024-01-02"}, {Date: "2024-01-03"}}},
		{Category: "b", Points: []Point{{Date: "2024-01-01"}, {Date: "2024-01-03"}}},
	}

	axis := Axis(series)
	if len(axis) != 3 || axis[0] != "2024-01-01" || axis[2] != "2024-01-03" {
		t.Errorf("unexpected axis %v", axis)
	}

	s, ok := Find(series, "B")
	if !ok || s.Category != "b" {
		t.Errorf("expected to find series b, got %+v", s)
	}
	if _, ok := s.Point("2024-01-02"); ok {
		t.Error("did not expect a point on 2024-01-02 for b")
	}
	if p, ok := s.Latest(); !ok || p.Date != "2024-01-03" {
		t.Errorf("unexpected latest point %+v", p)
	}
}
