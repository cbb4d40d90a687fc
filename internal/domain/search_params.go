package domain

import (
	"fmt"
	"time"
)

// 検索パラメータの境界値（設定UI側のバリデーションと同じ値）
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 240
	MinBufferMinutes   = 0
	MaxBufferMinutes   = 60

	// DefaultRangeDays 検索期間が不正な場合のフォールバック日数
	DefaultRangeDays = 30
)

// SearchParams 空き時間検索1回分の設定
type SearchParams struct {
	StartDate time.Time // 検索開始日（その日を含む）
	EndDate   time.Time // 検索終了日（その日を含む）

	StartTime string // 業務開始時刻 "HH:MM"
	EndTime   string // 業務終了時刻 "HH:MM"

	DurationMinutes int // 報告する空き時間の最低連続時間（分）
	BufferMinutes   int // 各予定の前後に確保する余裕（分）

	IncludeAllDay   bool // 終日の予定を予定として扱うか
	IncludeWeekends bool // 土日を検索対象に含めるか
}

// Normalize 不正・未設定の値をデフォルトに補正する。
// 検索期間が不正な場合は [now当日, now+30日] にフォールバックし、
// 所要時間・余裕時間は境界値にクランプする。
func (p *SearchParams) Normalize(now time.Time) {
	today := DateOnly(now)

	if p.StartDate.IsZero() {
		p.StartDate = today
	} else {
		p.StartDate = DateOnly(p.StartDate)
	}
	if p.EndDate.IsZero() || p.EndDate.Before(p.StartDate) {
		p.EndDate = p.StartDate.AddDate(0, 0, DefaultRangeDays)
	} else {
		p.EndDate = DateOnly(p.EndDate)
	}

	if p.DurationMinutes < MinDurationMinutes {
		p.DurationMinutes = MinDurationMinutes
	}
	if p.DurationMinutes > MaxDurationMinutes {
		p.DurationMinutes = MaxDurationMinutes
	}
	if p.BufferMinutes < MinBufferMinutes {
		p.BufferMinutes = MinBufferMinutes
	}
	if p.BufferMinutes > MaxBufferMinutes {
		p.BufferMinutes = MaxBufferMinutes
	}

	if p.StartTime == "" {
		p.StartTime = "09:00"
	}
	if p.EndTime == "" {
		p.EndTime = "20:00"
	}
}

// DateOnly 時刻部分を切り捨てて日付のみにする
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDateKey YYYY-MM-DD 形式の日付キーを返す
func FormatDateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CombineDayTime 日付と "HH:MM" 形式の時刻を組み合わせたタイムスタンプを返す
func CombineDayTime(day time.Time, hhmm string) (time.Time, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("時刻 %q の解析に失敗しました: %v", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
