// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/infochir/catalog/pkg/types"
)

// --- test helpers ---

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testPipeline(opts ...Option) *Pipeline[types.ListableRecord] {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return Records(opts...)
}

func rec(id, date string) types.ListableRecord {
	return types.ListableRecord{
		ID:         id,
		Title:      "Record " + id,
		Date:       ParseDate(date),
		RawDate:    date,
		Tags:       []string{},
		Authors:    []string{},
		Categories: []string{},
	}
}

func withDownloads(r types.ListableRecord, n int) types.ListableRecord {
	r.Downloads = n
	return r
}

func withShares(r types.ListableRecord, n int) types.ListableRecord {
	r.Shares = n
	return r
}

func withCategories(r types.ListableRecord, cats ...string) types.ListableRecord {
	r.Categories = cats
	return r
}

func withAbstract(r types.ListableRecord, abs string) types.ListableRecord {
	r.Abstract = abs
	return r
}

func ids(records []types.ListableRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// --- worked scenarios ---

func TestRunSortByDownloadsGroupsByYear(t *testing.T) {
	records := []types.ListableRecord{
		withDownloads(rec("a", "2020-01-01"), 5),
		withDownloads(rec("b", "2020-06-01"), 50),
		withDownloads(rec("c", "2019-01-01"), 1),
	}

	res := testPipeline().Run(records, types.FilterCriteria{}, types.SortDownloads)

	assert.Equal(t, []string{"b", "a", "c"}, ids(res.Sorted))
	assert.Equal(t, []int{2020, 2019}, res.Years)
	assert.Equal(t, []string{"b", "a"}, ids(res.ByYear[2020]))
	assert.Equal(t, []string{"c"}, ids(res.ByYear[2019]))
	assert.Empty(t, res.Undated)
}

func TestRunSearchMatchesAbstractCaseInsensitive(t *testing.T) {
	records := []types.ListableRecord{
		withAbstract(rec("cardio", "2021-03-01"), "Cardiologie interventionnelle chez l'adulte"),
		withAbstract(rec("digestive", "2021-04-01"), "Chirurgie digestive"),
		rec("plain", "2021-05-01"),
	}

	res := testPipeline().Run(records, types.FilterCriteria{SearchTerm: "cardio"}, types.SortLatest)

	assert.Equal(t, []string{"cardio"}, ids(res.Sorted))
}

func TestRunInvalidDateWithAndWithoutRange(t *testing.T) {
	records := []types.ListableRecord{
		rec("good", "2020-05-01"),
		rec("bad", "not-a-date"),
	}
	p := testPipeline()

	ranged := p.Run(records, types.FilterCriteria{
		DateRange: &types.DateRange{From: day("2000-01-01")},
	}, types.SortLatest)
	assert.Equal(t, []string{"good"}, ids(ranged.Sorted))

	open := p.Run(records, types.FilterCriteria{}, types.SortLatest)
	assert.Equal(t, []string{"good", "bad"}, ids(open.Sorted))
	for y, members := range open.ByYear {
		assert.NotContains(t, ids(members), "bad", "year %d", y)
	}
	assert.Equal(t, []string{"bad"}, ids(open.Undated))
}

func TestRunCategoriesRequireAllSelected(t *testing.T) {
	records := []types.ListableRecord{
		withCategories(rec("only-a", "2020-01-01"), "A"),
		withCategories(rec("a-and-b", "2020-02-01"), "A", "B", "C"),
		withCategories(rec("none", "2020-03-01")),
	}

	res := testPipeline().Run(records, types.FilterCriteria{Categories: []string{"A", "B"}}, types.SortLatest)

	assert.Equal(t, []string{"a-and-b"}, ids(res.Sorted))
}

// --- properties ---

func sampleRecords() []types.ListableRecord {
	return []types.ListableRecord{
		withShares(withDownloads(withCategories(rec("r1", "2021-03-15"), "Chirurgie"), 10), 2),
		withShares(withDownloads(withCategories(rec("r2", "2019-11-01"), "Anesthésie"), 10), 7),
		withShares(withDownloads(rec("r3", ""), 3), 7),
		withShares(withDownloads(withCategories(rec("r4", "2021-11-20"), "Chirurgie", "Pédiatrie"), 0), 1),
		withShares(withDownloads(rec("r5", "2019-11-30"), 42), 0),
		withShares(withDownloads(rec("r6", "garbage"), 1), 9),
		withShares(withDownloads(rec("r7", "2023-01-05T10:30:00Z"), 10), 2),
	}
}

func TestRunSortedIsFilteredSubset(t *testing.T) {
	records := sampleRecords()
	criteria := types.FilterCriteria{Categories: []string{"Chirurgie"}}
	p := testPipeline()

	res := p.Run(records, criteria, types.SortDownloads)

	var want []string
	for _, r := range records {
		if matchCategories(r.Categories, criteria.Categories) {
			want = append(want, r.ID)
		}
	}
	assert.ElementsMatch(t, want, ids(res.Sorted))
}

func TestRunSortIsIdempotent(t *testing.T) {
	for _, key := range []types.SortKey{types.SortLatest, types.SortYear, types.SortDownloads, types.SortShares} {
		t.Run(string(key), func(t *testing.T) {
			p := testPipeline()
			first := p.Run(sampleRecords(), types.FilterCriteria{}, key)
			second := p.Run(first.Sorted, types.FilterCriteria{}, key)
			if diff := cmp.Diff(ids(first.Sorted), ids(second.Sorted)); diff != "" {
				t.Errorf("re-sorting changed order (-first +second):\n%s", diff)
			}
		})
	}
}

func TestRunGroupCountsMatchDatedRecords(t *testing.T) {
	res := testPipeline().Run(sampleRecords(), types.FilterCriteria{}, types.SortShares)

	dated := 0
	for _, r := range res.Sorted {
		if r.HasDate() {
			dated++
		}
	}
	total := 0
	for _, members := range res.ByYear {
		total += len(members)
	}
	assert.Equal(t, dated, total)
	assert.Equal(t, len(res.Sorted)-dated, len(res.Undated))
}

func TestRunYearsStrictlyDescendingAndMatchKeys(t *testing.T) {
	res := testPipeline().Run(sampleRecords(), types.FilterCriteria{}, types.SortDownloads)

	require.Len(t, res.Years, len(res.ByYear))
	for i := 1; i < len(res.Years); i++ {
		assert.Greater(t, res.Years[i-1], res.Years[i])
	}
	for _, y := range res.Years {
		assert.Contains(t, res.ByYear, y)
	}
	assert.Equal(t, []int{2023, 2021, 2019}, res.Years)
}

func TestRunIsReferentiallyStable(t *testing.T) {
	p := testPipeline()
	criteria := types.FilterCriteria{SearchTerm: "record", Categories: []string{"Chirurgie"}}

	first := p.Run(sampleRecords(), criteria, types.SortYear)
	second := p.Run(sampleRecords(), criteria, types.SortYear)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := sampleRecords()

	testPipeline().Run(records, types.FilterCriteria{}, types.SortDownloads)

	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestRunEmptyInput(t *testing.T) {
	res := testPipeline().Run(nil, types.FilterCriteria{SearchTerm: "x"}, types.SortLatest)

	assert.NotNil(t, res.Sorted)
	assert.Empty(t, res.Sorted)
	assert.Empty(t, res.ByYear)
	assert.Empty(t, res.Years)
	assert.Empty(t, res.Categories)
}

func TestRunAvailableCategoriesIgnoreFilters(t *testing.T) {
	res := testPipeline().Run(sampleRecords(), types.FilterCriteria{SearchTerm: "no such record"}, types.SortLatest)

	assert.Empty(t, res.Sorted)
	assert.Equal(t, []string{"Anesthésie", "Chirurgie", "Pédiatrie"}, res.Categories)
}

// --- comparator table ---

func TestSortOrders(t *testing.T) {
	tests := []struct {
		name string
		key  types.SortKey
		want []string
	}{
		{"latest puts undated last", types.SortLatest, []string{"r7", "r4", "r1", "r5", "r2", "r3", "r6"}},
		{"year then month", types.SortYear, []string{"r7", "r4", "r1", "r2", "r5", "r3", "r6"}},
		{"downloads keeps fetch order on ties", types.SortDownloads, []string{"r5", "r1", "r2", "r7", "r3", "r6", "r4"}},
		{"shares keeps fetch order on ties", types.SortShares, []string{"r6", "r2", "r3", "r1", "r7", "r4", "r5"}},
		{"unknown key falls back to latest", types.SortKey("popularity"), []string{"r7", "r4", "r1", "r5", "r2", "r3", "r6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testPipeline().Run(sampleRecords(), types.FilterCriteria{}, tt.key)
			assert.Equal(t, tt.want, ids(res.Sorted))
		})
	}
}

// --- filters ---

func TestDateRangeBoundsAreInclusive(t *testing.T) {
	records := []types.ListableRecord{
		rec("before", "2019-12-31"),
		rec("from", "2020-01-01"),
		rec("mid", "2020-06-15"),
		rec("to", "2020-12-31"),
		rec("late", "2020-12-31T09:30:00Z"),
		rec("after", "2021-01-01"),
	}
	tests := []struct {
		name     string
		from, to string
		want     []string
	}{
		{"both bounds", "2020-01-01", "2020-12-31", []string{"late", "to", "mid", "from"}},
		{"from only", "2020-06-15", "", []string{"after", "late", "to", "mid"}},
		{"to only", "", "2020-01-01", []string{"from", "before"}},
		{"to bound covers the whole day", "", "2020-12-31", []string{"late", "to", "mid", "from", "before"}},
		{"no bounds", "", "", []string{"after", "late", "to", "mid", "from", "before"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseDateRange(tt.from, tt.to)
			require.NoError(t, err)
			res := testPipeline().Run(records, types.FilterCriteria{DateRange: r}, types.SortLatest)
			assert.Equal(t, tt.want, ids(res.Sorted))
		})
	}
}

func TestEmptyDateRangeIsInactive(t *testing.T) {
	records := []types.ListableRecord{rec("dated", "2020-01-01"), rec("undated", "")}
	res := testPipeline().Run(records, types.FilterCriteria{DateRange: &types.DateRange{}}, types.SortLatest)
	assert.Equal(t, []string{"dated", "undated"}, ids(res.Sorted))
}

func TestMatchTextNestedTokens(t *testing.T) {
	issue := rec("issue", "2022-01-01")
	issue.Title = "INFO GAZETTE MÉDICALE Volume 3, No. 2"
	issue.Articles = []types.NestedArticle{
		{ID: "a1", Title: "Fracture du fémur", Authors: []string{"Jean Dupont"}},
		{ID: "a2", Title: "Cardiopathies congénitales", Authors: []string{"Marie Louis"}, Tags: []string{"pédiatrie"}},
	}
	sf := RecordAccessor{}.Search(issue)

	tests := []struct {
		term string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"gazette médicale", true},
		{"DUPONT fémur", true},
		{"fémur dupont", true},
		{"louis pédiatrie", true},
		{"dupont cardiopathies", false},
		{"neurologie", false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, matchText(sf, tt.term))
		})
	}
}

func TestMatchTextFlatRecordSearchesAuthorsAndTags(t *testing.T) {
	r := rec("flat", "2022-01-01")
	r.Authors = []string{"Pierre Michel"}
	r.Tags = []string{"laparoscopie"}
	sf := RecordAccessor{}.Search(r)

	assert.True(t, matchText(sf, "michel laparoscopie"))
	assert.False(t, matchText(sf, "michel thorax"))
}

// --- diagnostics ---

func TestRunLogsImplausibleYears(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := testPipeline(WithLogger(zap.New(core)))

	res := p.Run([]types.ListableRecord{rec("old", "1850-05-01"), rec("future", "2031-01-01"), rec("ok", "2024-01-01")},
		types.FilterCriteria{}, types.SortLatest)

	assert.Equal(t, []int{2031, 2024, 1850}, res.Years)
	assert.Equal(t, 2, logs.FilterMessage("record year outside expected range").Len())
}

// --- date parsing ---

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2020-01-02", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2020-01-02T03:04:05Z", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2020-01-02T03:04:05.123456Z", time.Date(2020, 1, 2, 3, 4, 5, 123456000, time.UTC)},
		{"2020-01-02 03:04:05", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"  2020-01-02  ", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not-a-date", time.Time{}},
		{"2020-13-45", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDate(tt.in)
			assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		})
	}
}
