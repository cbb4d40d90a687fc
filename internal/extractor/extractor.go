// Package extractor はテキスト断片の集合からカレンダーイベントを抽出する。
package extractor

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
	"github.com/s-fujino/google-calendar-free-slot-finder/internal/textparse"
)

// タイトルは「」で囲まれた最初の区間を優先する
var reQuotedTitle = regexp.MustCompile(`「([^」]+)」`)

// Options イベント抽出のオプション
type Options struct {
	IncludeAllDay bool // 終日の予定を抽出対象に含めるか
}

// ExtractEvents 生テキスト断片から [start, end] の範囲内のイベントを抽出する。
// 断片単位のベストエフォート方式: 解析できない断片は黙って捨てて処理を続行し、
// 1件の失敗がバッチ全体を中断することはない。
// 出力は断片の走査順（ソートしない）。重複は1呼び出し内で排除する。
func ExtractEvents(fragments []domain.Fragment, start, end time.Time, opts Options) []domain.Event {
	events := make([]domain.Event, 0, len(fragments))
	processed := make(map[string]struct{})

	searchStart := domain.DateOnly(start)
	searchEnd := domain.DateOnly(end)

	for _, fragment := range fragments {
		text := strings.TrimSpace(fragment.Text)
		if text == "" {
			continue
		}

		event, ok := extractOne(text, searchStart, searchEnd, opts)
		if !ok {
			continue
		}

		key := dedupKey(event)
		if _, seen := processed[key]; seen {
			continue
		}
		processed[key] = struct{}{}

		events = append(events, event)
	}

	return events
}

// extractOne 1断片を解析する。日付または時間帯が取れない断片は失格。
func extractOne(text string, searchStart, searchEnd time.Time, opts Options) (domain.Event, bool) {
	// 日付はテキスト末尾側の日本語日付を優先し、なければ相対表記（今日/明日）
	day, ok := textparse.ParseLastJPDate(text, searchStart)
	if !ok {
		day, ok = textparse.ParseRelativeJPDate(text, searchStart)
	}
	if !ok || !withinRange(day, searchStart, searchEnd) {
		return domain.Event{}, false
	}

	title := text
	if m := reQuotedTitle.FindStringSubmatch(text); m != nil {
		title = m[1]
	}

	// 終日予定
	if textparse.IsAllDayLabel(text) {
		if !opts.IncludeAllDay {
			return domain.Event{}, false
		}
		return domain.Event{
			Title:      title,
			Start:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()),
			End:        time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 0, 0, day.Location()),
			IsAllDay:   true,
			SourceText: text,
		}, true
	}

	// 時刻指定の予定
	start, end, ok := textparse.ParseTimeRange(text, day)
	if !ok {
		log.Printf("時間帯を解析できない断片をスキップしました: %q", text)
		return domain.Event{}, false
	}

	return domain.Event{
		Title:      title,
		Start:      start,
		End:        end,
		SourceText: text,
	}, true
}

// dedupKey (日付, 時間帯, タイトル) の複合キー。終日予定は時間帯の代わりに固定ラベル。
func dedupKey(event domain.Event) string {
	day := domain.FormatDateKey(event.Start)
	if event.IsAllDay {
		return fmt.Sprintf("%s_allday_%s", day, event.Title)
	}
	return fmt.Sprintf("%s_%s-%s_%s",
		day, event.Start.Format("15:04"), event.End.Format("15:04"), event.Title)
}

func withinRange(day, start, end time.Time) bool {
	d := domain.DateOnly(day)
	return !d.Before(start) && !d.After(end)
}
