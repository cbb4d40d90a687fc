// Package formatter は空き時間の検索結果を表示用テキストに整形する。
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
)

// NoFreeSlotsMessage 空き時間が1件も見つからなかった場合の固定メッセージ
const NoFreeSlotsMessage = "指定された条件で空き時間が見つかりませんでした。"

// 曜日の日本語表記（time.Weekday と同じ日曜始まり）
var weekdayJapanese = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatSlots 空き時間を日付ごとに1行ずつ整形する。
//
// 出力例:
//
//	1月 15日 (月曜日)  09:30-14:00 / 15:00-18:00
//
// 空きなしプレースホルダの日は行ごと省略する（「空きなし」とは表示しない）。
// 表示できる行がひとつもない場合は固定メッセージを返す。
func FormatSlots(slots []domain.FreeSlot) string {
	if len(slots) == 0 {
		return NoFreeSlotsMessage
	}

	// 日付ごとにグループ化（最初に現れた順を維持）
	slotsByDate := make(map[string][]domain.FreeSlot)
	dateOrder := make([]string, 0)
	for _, slot := range slots {
		if _, ok := slotsByDate[slot.Date]; !ok {
			dateOrder = append(dateOrder, slot.Date)
		}
		slotsByDate[slot.Date] = append(slotsByDate[slot.Date], slot)
	}

	lines := make([]string, 0, len(dateOrder))
	for _, dateKey := range dateOrder {
		if line, ok := formatDateLine(dateKey, slotsByDate[dateKey]); ok {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return NoFreeSlotsMessage
	}
	return strings.Join(lines, "\n")
}

// formatDateLine 1日分の行を整形する。表示対象の空きがない日は ok=false。
func formatDateLine(dateKey string, slots []domain.FreeSlot) (string, bool) {
	date, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return "", false
	}

	ranges := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot.NoFree {
			continue
		}
		ranges = append(ranges, fmt.Sprintf("%s-%s",
			slot.Start.Format("15:04"), slot.End.Format("15:04")))
	}
	if len(ranges) == 0 {
		return "", false
	}

	weekday := weekdayJapanese[date.Weekday()]
	return fmt.Sprintf("%d月 %d日 (%s曜日)  %s",
		int(date.Month()), date.Day(), weekday, strings.Join(ranges, " / ")), true
}
