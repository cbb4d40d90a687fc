package domain

import "time"

// Event カレンダーイベントのドメインエンティティ。
// テキスト断片または Google Calendar API から抽出された1件の予定を表す。
type Event struct {
	Title      string
	Start      time.Time
	End        time.Time
	IsAllDay   bool
	SourceText string // 抽出元のテキスト断片（診断用）
}

// Fragment 予定候補となる生テキスト断片。
// DOMスクレイピング等の外部コラボレーターから供給される。
type Fragment struct {
	Text string
}

// FreeSlot 1日の中の連続した空き時間（または「空きなし」マーカー）
type FreeSlot struct {
	Date            string // YYYY-MM-DD（ローカル日付キー）
	Start           time.Time
	End             time.Time
	DurationMinutes int
	NoFree          bool // 予定はあるが条件を満たす空きがなかった日
}
