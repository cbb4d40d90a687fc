package gateway

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
)

// EventsProvider Google Calendar API 呼び出しを抽象化するインターフェース（テスト用）
type EventsProvider interface {
	ListEvents(calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
	QueryFreeBusy(calendarID, timeMin, timeMax string) ([]*calendar.TimePeriod, error)
}

// googleEventsProvider 実際の Calendar API を呼び出す EventsProvider 実装
type googleEventsProvider struct {
	service *calendar.Service
}

func (p *googleEventsProvider) ListEvents(calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	events, err := p.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

func (p *googleEventsProvider) QueryFreeBusy(calendarID, timeMin, timeMax string) ([]*calendar.TimePeriod, error) {
	resp, err := p.service.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: timeMin,
		TimeMax: timeMax,
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Do()
	if err != nil {
		return nil, err
	}
	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("freeBusyレスポンスにカレンダー %s が含まれていません", calendarID)
	}
	return cal.Busy, nil
}

// GoogleCalendarRepository Google Calendar API を使用したイベントソース。
// usecase.EventSource を実装する。
type GoogleCalendarRepository struct {
	provider   EventsProvider
	calendarID string
	timezone   *time.Location
}

// NewGoogleCalendarRepository サービスアカウント認証でリポジトリを作成
func NewGoogleCalendarRepository(credentialsJSON []byte, calendarID string, timezone *time.Location) (*GoogleCalendarRepository, error) {
	creds, err := google.CredentialsFromJSON(
		context.Background(),
		credentialsJSON,
		calendar.CalendarReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %v", err)
	}

	service, err := calendar.NewService(
		context.Background(),
		option.WithCredentials(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %v", err)
	}

	return NewGoogleCalendarRepositoryWithProvider(&googleEventsProvider{service: service}, calendarID, timezone), nil
}

// NewGoogleCalendarRepositoryWithProvider 任意の EventsProvider でリポジトリを作成（テスト用）
func NewGoogleCalendarRepositoryWithProvider(provider EventsProvider, calendarID string, timezone *time.Location) *GoogleCalendarRepository {
	return &GoogleCalendarRepository{
		provider:   provider,
		calendarID: calendarID,
		timezone:   timezone,
	}
}

// GetEvents 検索期間全体のイベントを取得する。
// 変換に失敗したイベントはスキップして続行する（バッチは中断しない）。
// IncludeAllDay が無効の場合、終日イベントは結果から除外する。
func (r *GoogleCalendarRepository) GetEvents(_ context.Context, params domain.SearchParams) ([]domain.Event, error) {
	timeMin, timeMax := r.rangeBounds(params)

	items, err := r.provider.ListEvents(r.calendarID, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("カレンダーイベントの取得に失敗しました: %v", err)
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		event, err := r.convertToEvent(item)
		if err != nil {
			fmt.Printf("Warning: イベントの変換をスキップしました: %v\n", err)
			continue
		}
		if event.IsAllDay && !params.IncludeAllDay {
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// GetBusyIntervals freeBusy API で取得した予定あり区間を匿名イベントとして返す。
// 予定の詳細を読めない共有カレンダーでも空き時間計算に使える。
func (r *GoogleCalendarRepository) GetBusyIntervals(_ context.Context, params domain.SearchParams) ([]domain.Event, error) {
	timeMin, timeMax := r.rangeBounds(params)

	periods, err := r.provider.QueryFreeBusy(r.calendarID, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("freeBusy情報の取得に失敗しました: %v", err)
	}

	events := make([]domain.Event, 0, len(periods))
	for _, period := range periods {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			fmt.Printf("Warning: busy区間の開始時刻をスキップしました: %v\n", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			fmt.Printf("Warning: busy区間の終了時刻をスキップしました: %v\n", err)
			continue
		}
		events = append(events, domain.Event{
			Title: "予定あり",
			Start: start.In(r.timezone),
			End:   end.In(r.timezone),
		})
	}

	return events, nil
}

// FreeBusySource freeBusy API を使ったイベントソース。
// usecase.EventSource を実装する。イベント詳細の読み取り権限がない
// カレンダーでも、予定あり区間だけで空き時間計算ができる。
type FreeBusySource struct {
	repo *GoogleCalendarRepository
}

// NewFreeBusySource freeBusyベースのイベントソースを作成
func NewFreeBusySource(repo *GoogleCalendarRepository) *FreeBusySource {
	return &FreeBusySource{repo: repo}
}

// GetEvents 検索期間内の予定あり区間を匿名イベントとして取得する
func (s *FreeBusySource) GetEvents(ctx context.Context, params domain.SearchParams) ([]domain.Event, error) {
	return s.repo.GetBusyIntervals(ctx, params)
}

// rangeBounds 検索期間を RFC3339 の [開始日00:00, 終了日翌日00:00) に変換する
func (r *GoogleCalendarRepository) rangeBounds(params domain.SearchParams) (string, string) {
	start := time.Date(
		params.StartDate.Year(), params.StartDate.Month(), params.StartDate.Day(),
		0, 0, 0, 0, r.timezone,
	)
	end := time.Date(
		params.EndDate.Year(), params.EndDate.Month(), params.EndDate.Day(),
		0, 0, 0, 0, r.timezone,
	).AddDate(0, 0, 1)

	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

// convertToEvent Google Calendar API のイベントをドメインエンティティに変換
func (r *GoogleCalendarRepository) convertToEvent(event *calendar.Event) (domain.Event, error) {
	domainEvent := domain.Event{
		Title:      event.Summary,
		SourceText: event.Summary,
	}

	if domainEvent.Title == "" {
		domainEvent.Title = "（無題）"
	}

	switch {
	case event.Start == nil:
		return domain.Event{}, fmt.Errorf("開始時刻が設定されていません")
	case event.Start.DateTime != "":
		startTime, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始時刻の解析に失敗しました: %v", err)
		}
		domainEvent.Start = startTime.In(r.timezone)
	case event.Start.Date != "":
		// 終日イベントは 00:00-23:59 の区間として扱う
		startDate, err := time.ParseInLocation("2006-01-02", event.Start.Date, r.timezone)
		if err != nil {
			return domain.Event{}, fmt.Errorf("開始日の解析に失敗しました: %v", err)
		}
		domainEvent.Start = startDate
		domainEvent.End = time.Date(
			startDate.Year(), startDate.Month(), startDate.Day(),
			23, 59, 0, 0, r.timezone,
		)
		domainEvent.IsAllDay = true
		return domainEvent, nil
	default:
		return domain.Event{}, fmt.Errorf("開始時刻が設定されていません")
	}

	switch {
	case event.End == nil || event.End.DateTime == "":
		return domain.Event{}, fmt.Errorf("終了時刻が設定されていません")
	default:
		endTime, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("終了時刻の解析に失敗しました: %v", err)
		}
		domainEvent.End = endTime.In(r.timezone)
	}

	return domainEvent, nil
}
