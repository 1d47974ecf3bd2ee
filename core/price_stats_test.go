package core

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Lounwb/Stockin/models"

	"github.com/shopspring/decimal"
)

// fakeStore 内存版价格记录存储
type fakeStore struct {
	obs    []models.PriceObservation
	err    error
	called int
}

func (f *fakeStore) ListPriceObservations(itemID string) ([]models.PriceObservation, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return f.obs, nil
}

func obs(platform models.Platform, price, date string) models.PriceObservation {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.PriceObservation{
		ItemID:     "item-1",
		Platform:   platform,
		Price:      decimal.RequireFromString(price),
		RecordedAt: d,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// mustEqual 比较可空decimal和期望值，期望空串表示应为nil
func mustEqual(t *testing.T, name string, got *decimal.Decimal, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s 应为空，实际为 %s", name, got)
		}
		return
	}
	if got == nil {
		t.Fatalf("%s 不应为空，期望 %s", name, want)
	}
	if !got.Equal(dec(want)) {
		t.Errorf("%s 错误: 期望 %s, 实际 %s", name, want, got)
	}
}

var testNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.Local)

func TestGetPriceStatsBasic(t *testing.T) {
	store := &fakeStore{obs: []models.PriceObservation{
		obs(models.PlatformJD, "10", "2024-01-01"),
		obs(models.PlatformJD, "12", "2024-01-02"),
		obs(models.PlatformTmall, "11", "2024-01-02"),
	}}

	result, err := getPriceStatsAt(store, "item-1", RangeAll, testNow)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	if len(result.History) != 2 {
		t.Fatalf("历史点数错误: 期望 2, 实际 %d", len(result.History))
	}

	first := result.History[0]
	if first.Date != "2024-01-01" {
		t.Errorf("第一个日期错误: %s", first.Date)
	}
	mustEqual(t, "2024-01-01 jd", first.JD, "10")
	mustEqual(t, "2024-01-01 tmall", first.Tmall, "")
	mustEqual(t, "2024-01-01 pdd", first.PDD, "")

	second := result.History[1]
	if second.Date != "2024-01-02" {
		t.Errorf("第二个日期错误: %s", second.Date)
	}
	mustEqual(t, "2024-01-02 jd", second.JD, "12")
	mustEqual(t, "2024-01-02 tmall", second.Tmall, "11")

	mustEqual(t, "jd max", result.Stats.JD.Max, "12")
	mustEqual(t, "jd min", result.Stats.JD.Min, "10")
	mustEqual(t, "jd avg1y", result.Stats.JD.Avg1y, "11")
	mustEqual(t, "tmall max", result.Stats.Tmall.Max, "11")
	mustEqual(t, "tmall min", result.Stats.Tmall.Min, "11")
	mustEqual(t, "tmall avg1y", result.Stats.Tmall.Avg1y, "11")
	mustEqual(t, "pdd max", result.Stats.PDD.Max, "")
	mustEqual(t, "pdd min", result.Stats.PDD.Min, "")
	mustEqual(t, "pdd avg1y", result.Stats.PDD.Avg1y, "")
}

func TestGetPriceStatsEmpty(t *testing.T) {
	store := &fakeStore{}

	result, err := getPriceStatsAt(store, "item-1", RangeAll, testNow)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}

	if len(result.History) != 0 {
		t.Errorf("空数据历史应为空，实际 %d 条", len(result.History))
	}
	for _, platform := range models.AllPlatforms {
		ps := result.Stats.ForPlatform(platform)
		if ps.Max != nil || ps.Min != nil || ps.Avg1y != nil {
			t.Errorf("平台 %s 无数据时统计应全为空", platform)
		}
	}
}

func TestGetPriceStatsMissingItemID(t *testing.T) {
	store := &fakeStore{}

	_, err := getPriceStatsAt(store, "", RangeAll, testNow)
	if !errors.Is(err, ErrMissingItemID) {
		t.Fatalf("期望 ErrMissingItemID, 实际 %v", err)
	}
	if store.called != 0 {
		t.Errorf("缺少item_id时不应访问存储，实际访问 %d 次", store.called)
	}
}

func TestGetPriceStatsUpstreamError(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("connection refused")}

	_, err := getPriceStatsAt(store, "item-1", RangeAll, testNow)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("期望 ErrUpstreamUnavailable, 实际 %v", err)
	}
}

func TestBuildPriceHistoryDuplicateLastWins(t *testing.T) {
	// 同一(平台,日期)出现两条，按输入顺序后者生效
	history := BuildPriceHistory([]models.PriceObservation{
		obs(models.PlatformJD, "10", "2024-01-01"),
		obs(models.PlatformJD, "13", "2024-01-01"),
	})

	if len(history) != 1 {
		t.Fatalf("重复日期应合并为一条，实际 %d 条", len(history))
	}
	mustEqual(t, "jd", history[0].JD, "13")
}

func TestBuildPriceHistoryOrdering(t *testing.T) {
	// 乱序输入，输出必须按日期严格升序且无重复
	history := BuildPriceHistory([]models.PriceObservation{
		obs(models.PlatformPDD, "9", "2024-03-05"),
		obs(models.PlatformJD, "10", "2024-01-20"),
		obs(models.PlatformTmall, "11", "2024-02-11"),
		obs(models.PlatformJD, "12", "2024-01-02"),
	})

	if len(history) != 4 {
		t.Fatalf("历史点数错误: %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i-1].Date >= history[i].Date {
			t.Errorf("日期未严格升序: %s >= %s", history[i-1].Date, history[i].Date)
		}
	}
}

func TestBuildPriceHistoryTruncatesTime(t *testing.T) {
	// 带时分秒的记录按日期归并
	withTime := models.PriceObservation{
		ItemID:     "item-1",
		Platform:   models.PlatformJD,
		Price:      dec("10"),
		RecordedAt: time.Date(2024, 1, 1, 23, 59, 59, 0, time.Local),
	}
	history := BuildPriceHistory([]models.PriceObservation{
		withTime,
		obs(models.PlatformTmall, "11", "2024-01-01"),
	})

	if len(history) != 1 {
		t.Fatalf("同一天的记录应归并为一条，实际 %d 条", len(history))
	}
	if history[0].Date != "2024-01-01" {
		t.Errorf("日期错误: %s", history[0].Date)
	}
}

func TestFilterObservationsByRange(t *testing.T) {
	now := time.Date(2024, 12, 31, 10, 0, 0, 0, time.Local)
	// 窗口起点为 2024-01-01，边界日包含
	input := []models.PriceObservation{
		obs(models.PlatformJD, "10", "2023-12-31"),
		obs(models.PlatformJD, "11", "2024-01-01"),
		obs(models.PlatformJD, "12", "2024-12-31"),
	}

	all := FilterObservationsByRange(input, RangeAll, now)
	if len(all) != 3 {
		t.Errorf("all区间不应过滤，实际 %d 条", len(all))
	}

	recent := FilterObservationsByRange(input, RangeOneYear, now)
	if len(recent) != 2 {
		t.Fatalf("1y区间应保留2条，实际 %d 条", len(recent))
	}
	if !recent[0].Price.Equal(dec("11")) {
		t.Errorf("边界日记录应包含在内")
	}
}

func TestComputePriceStatsAvgWindowIndependentOfRange(t *testing.T) {
	now := time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
	all := []models.PriceObservation{
		obs(models.PlatformJD, "100", "2022-05-01"), // 窗口外
		obs(models.PlatformJD, "20", "2024-06-01"),
		obs(models.PlatformJD, "10", "2024-07-01"),
	}
	ranged := FilterObservationsByRange(all, RangeOneYear, now)

	stats := ComputePriceStats(ranged, all, now)
	// max/min只看区间内，avg1y只看最近365天
	mustEqual(t, "jd max", stats.JD.Max, "20")
	mustEqual(t, "jd min", stats.JD.Min, "10")
	mustEqual(t, "jd avg1y", stats.JD.Avg1y, "15")

	// 请求全部历史时max/min覆盖全量，avg1y窗口不变
	statsAll := ComputePriceStats(all, all, now)
	mustEqual(t, "jd max(all)", statsAll.JD.Max, "100")
	mustEqual(t, "jd min(all)", statsAll.JD.Min, "10")
	mustEqual(t, "jd avg1y(all)", statsAll.JD.Avg1y, "15")
}

func TestComputePriceStatsAvgUnsetOutsideWindow(t *testing.T) {
	now := time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
	all := []models.PriceObservation{
		obs(models.PlatformTmall, "30", "2020-01-01"),
	}

	stats := ComputePriceStats(all, all, now)
	mustEqual(t, "tmall max", stats.Tmall.Max, "30")
	mustEqual(t, "tmall min", stats.Tmall.Min, "30")
	mustEqual(t, "tmall avg1y", stats.Tmall.Avg1y, "")
}

func TestComputePriceStatsDecimalPrecision(t *testing.T) {
	// 0.1+0.2+0.3的均值必须精确等于0.2，不能有二进制浮点误差
	all := []models.PriceObservation{
		obs(models.PlatformJD, "0.1", "2024-05-01"),
		obs(models.PlatformJD, "0.2", "2024-05-02"),
		obs(models.PlatformJD, "0.3", "2024-05-03"),
	}

	stats := ComputePriceStats(all, all, testNow)
	mustEqual(t, "jd avg1y", stats.JD.Avg1y, "0.2")
}

func TestSanitizeObservationsSkipsMalformed(t *testing.T) {
	bad := models.PriceObservation{
		ItemID:     "item-1",
		Platform:   models.Platform("taobao"),
		Price:      dec("10"),
		RecordedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
	}
	zero := obs(models.PlatformJD, "0", "2024-01-02")
	good := obs(models.PlatformJD, "10", "2024-01-03")

	clean := sanitizeObservations([]models.PriceObservation{bad, zero, good})
	if len(clean) != 1 {
		t.Fatalf("应只保留1条有效记录，实际 %d 条", len(clean))
	}
	if clean[0].Platform != models.PlatformJD || !clean[0].Price.Equal(dec("10")) {
		t.Errorf("保留的记录不正确: %+v", clean[0])
	}
}

func TestGetPriceStatsIdempotent(t *testing.T) {
	store := &fakeStore{obs: []models.PriceObservation{
		obs(models.PlatformJD, "10", "2024-01-01"),
		obs(models.PlatformTmall, "11", "2024-01-02"),
		obs(models.PlatformPDD, "9", "2024-01-03"),
	}}

	first, err := getPriceStatsAt(store, "item-1", RangeOneYear, testNow)
	if err != nil {
		t.Fatalf("第一次查询失败: %v", err)
	}
	second, err := getPriceStatsAt(store, "item-1", RangeOneYear, testNow)
	if err != nil {
		t.Fatalf("第二次查询失败: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("相同数据两次查询结果应一致")
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		input   string
		want    PriceRange
		wantErr bool
	}{
		{"", RangeAll, false},
		{"all", RangeAll, false},
		{"1y", RangeOneYear, false},
		{"3m", "", true},
	}

	for _, c := range cases {
		got, err := ParseRange(c.input)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseRange(%q) 应返回错误", c.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q) 失败: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseRange(%q) = %s, 期望 %s", c.input, got, c.want)
		}
	}
}
