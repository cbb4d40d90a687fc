package usecase

import (
	"context"
	"log"
	"time"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
	"github.com/s-fujino/google-calendar-free-slot-finder/internal/formatter"
	"github.com/s-fujino/google-calendar-free-slot-finder/internal/freeslot"
)

// EventSource 検索期間内のイベントを供給するポート。
// Google Calendar API ゲートウェイ、またはテキスト断片ベースのソースが実装する。
type EventSource interface {
	GetEvents(ctx context.Context, params domain.SearchParams) ([]domain.Event, error)
}

// Notifier 整形済みの検索結果を通知するポート
type Notifier interface {
	SendFreeSlotNotification(ctx context.Context, message string) error
}

// SearchFreeSlotsUseCase 空き時間検索・通知ユースケース
type SearchFreeSlotsUseCase struct {
	source   EventSource
	notifier Notifier
	clock    func() time.Time
}

// NewSearchFreeSlotsUseCase ユースケースを生成
func NewSearchFreeSlotsUseCase(source EventSource, notifier Notifier) *SearchFreeSlotsUseCase {
	return &SearchFreeSlotsUseCase{
		source:   source,
		notifier: notifier,
		clock:    time.Now,
	}
}

// Execute イベントを取得し、空き時間を計算・整形して通知する。
// 整形済みメッセージを返す。空き時間ゼロはエラーではなく、
// 固定メッセージがそのまま通知される。
func (uc *SearchFreeSlotsUseCase) Execute(ctx context.Context, params domain.SearchParams) (string, error) {
	params.Normalize(uc.clock())

	events, err := uc.source.GetEvents(ctx, params)
	if err != nil {
		log.Printf("イベントの取得に失敗しました: %v", err)
		return "", err
	}

	slots := freeslot.FindFreeSlots(events, params)
	message := formatter.FormatSlots(slots)

	if err := uc.notifier.SendFreeSlotNotification(ctx, message); err != nil {
		log.Printf("空き時間通知の送信に失敗しました: %v", err)
		return "", err
	}

	return message, nil
}
