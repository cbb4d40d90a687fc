package extractor

import (
	"context"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
)

// Source 事前に収集済みのテキスト断片をイベント供給源として扱うアダプタ。
// usecase.EventSource を実装する。断片の収集（DOMスクレイピング等）は
// 外部コラボレーターの責務で、呼び出し時点で全断片が揃っていることを前提とする。
type Source struct {
	Fragments []domain.Fragment
}

// NewSource 断片ベースのイベントソースを生成
func NewSource(fragments []domain.Fragment) *Source {
	return &Source{Fragments: fragments}
}

// GetEvents 保持する断片から検索条件に合うイベントを抽出する
func (s *Source) GetEvents(_ context.Context, params domain.SearchParams) ([]domain.Event, error) {
	events := ExtractEvents(s.Fragments, params.StartDate, params.EndDate, Options{
		IncludeAllDay: params.IncludeAllDay,
	})
	return events, nil
}
