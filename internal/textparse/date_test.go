package textparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func baseDate() time.Time {
	return time.Date(2024, 1, 15, 0, 0, 0, 0, jst)
}

// --- ParseDate テスト ---

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"ハイフン区切り", "2024-11-02", time.Date(2024, 11, 2, 0, 0, 0, 0, jst)},
		{"スラッシュ区切り", "2025/3/7 の予定", time.Date(2025, 3, 7, 0, 0, 0, 0, jst)},
		{"日本語完全表記", "2024年11月2日", time.Date(2024, 11, 2, 0, 0, 0, 0, jst)},
		{"日本語完全表記スペースあり", "2024 年 11 月 2 日", time.Date(2024, 11, 2, 0, 0, 0, 0, jst)},
		{"日本語部分表記は基準日の年", "11月2日", time.Date(2024, 11, 2, 0, 0, 0, 0, jst)},
		{"英語表記年あり", "September 10, 2025", time.Date(2025, 9, 10, 0, 0, 0, 0, jst)},
		{"英語表記年なし", "Sep 10", time.Date(2024, 9, 10, 0, 0, 0, 0, jst)},
		{"英語表記小文字", "september 10", time.Date(2024, 9, 10, 0, 0, 0, 0, jst)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, baseDate())
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_PriorityOrder(t *testing.T) {
	// 数値表記と日本語部分表記が共存する場合は数値表記が勝つ
	got, ok := ParseDate("2024-03-01 に変更（旧: 4月5日）", baseDate())
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, jst), got)

	// 完全表記は部分表記より優先される
	got, ok = ParseDate("締切 3月5日 → 2023年12月31日", baseDate())
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, jst), got)
}

func TestParseDate_NoMatch(t *testing.T) {
	tests := []string{"", "予定なし", "打ち合わせ"}
	for _, text := range tests {
		_, ok := ParseDate(text, baseDate())
		assert.False(t, ok, "text=%q", text)
	}
}

func TestParseDate_ZeroBaseUsesCurrentYear(t *testing.T) {
	got, ok := ParseDate("11月2日", time.Time{})
	require.True(t, ok)
	assert.Equal(t, time.Now().Year(), got.Year())
}

// --- ParseLastJPDate テスト ---

func TestParseLastJPDate_ReturnsRightmost(t *testing.T) {
	got, ok := ParseLastJPDate("11月2日から11月5日まで「会議」", baseDate())
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 11, 5, 0, 0, 0, 0, jst), got)
}

func TestParseLastJPDate_FullBeatsPartial(t *testing.T) {
	// 部分表記が後ろにあっても、完全表記がひとつでもあればそちらを採用する
	got, ok := ParseLastJPDate("2023年12月31日の件、続きは1月4日", baseDate())
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, jst), got)
}

func TestParseLastJPDate_MultipleFullDates(t *testing.T) {
	got, ok := ParseLastJPDate("2024年1月10日・2024年2月20日", baseDate())
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, jst), got)
}

func TestParseLastJPDate_NoMatch(t *testing.T) {
	_, ok := ParseLastJPDate("日付のないテキスト", baseDate())
	assert.False(t, ok)

	_, ok = ParseLastJPDate("", baseDate())
	assert.False(t, ok)
}

// --- ParseRelativeJPDate テスト ---

func TestParseRelativeJPDate_Today(t *testing.T) {
	base := time.Date(2024, 1, 15, 18, 30, 0, 0, jst)
	got, ok := ParseRelativeJPDate("今日の打ち合わせ", base)
	require.True(t, ok)
	// 時刻は切り捨てられる
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, jst), got)
}

func TestParseRelativeJPDate_Tomorrow(t *testing.T) {
	base := time.Date(2024, 1, 31, 9, 0, 0, 0, jst)
	got, ok := ParseRelativeJPDate("明日レビュー", base)
	require.True(t, ok)
	// 月末をまたいでも正しく翌日になる
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, jst), got)
}

func TestParseRelativeJPDate_NoMatch(t *testing.T) {
	_, ok := ParseRelativeJPDate("来週の予定", baseDate())
	assert.False(t, ok)
}
