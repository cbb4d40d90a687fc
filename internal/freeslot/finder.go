// Package freeslot はイベント列と検索条件から空き時間を計算する。
package freeslot

import (
	"log"
	"sort"
	"time"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
)

// FindFreeSlots 検索期間内の各日について業務時間内の空き時間を計算する。
// 土日は IncludeWeekends が false の場合スキップする。日付順に連結して返す。
// 同じ入力に対して常に同じ出力を返す（呼び出し間で状態を共有しない）。
func FindFreeSlots(events []domain.Event, params domain.SearchParams) []domain.FreeSlot {
	freeSlots := make([]domain.FreeSlot, 0)

	for day := params.StartDate; !day.After(params.EndDate); day = day.AddDate(0, 0, 1) {
		if !params.IncludeWeekends && isWeekend(day) {
			continue
		}
		freeSlots = append(freeSlots, findFreeSlotsForDay(day, events, params)...)
	}

	return freeSlots
}

// findFreeSlotsForDay 1日分の空き時間を計算する。
//
// 各イベントの前後に余裕時間を加えた区間を業務時間内にクランプし、
// 単調に進むカーソルで掃引する。カーソルは前にしか進まないため、
// 重なり合う・余裕時間で接するイベントは明示的なマージなしに自然に統合される。
// クランプより先に余裕を加えることで、余裕時間が業務時間の外に漏れない。
func findFreeSlotsForDay(day time.Time, events []domain.Event, params domain.SearchParams) []domain.FreeSlot {
	dateKey := domain.FormatDateKey(day)

	// その日に開始するイベントを開始時刻順に抽出
	dayEvents := make([]domain.Event, 0)
	for _, event := range events {
		if domain.FormatDateKey(event.Start) == dateKey {
			dayEvents = append(dayEvents, event)
		}
	}
	sort.SliceStable(dayEvents, func(i, j int) bool {
		return dayEvents[i].Start.Before(dayEvents[j].Start)
	})

	dayStart, err := domain.CombineDayTime(day, params.StartTime)
	if err != nil {
		log.Printf("業務開始時刻の解析に失敗したため %s をスキップしました: %v", dateKey, err)
		return nil
	}
	dayEnd, err := domain.CombineDayTime(day, params.EndTime)
	if err != nil {
		log.Printf("業務終了時刻の解析に失敗したため %s をスキップしました: %v", dateKey, err)
		return nil
	}

	// イベントのない日は業務時間全体が空き
	if len(dayEvents) == 0 {
		return []domain.FreeSlot{{
			Date:            dateKey,
			Start:           dayStart,
			End:             dayEnd,
			DurationMinutes: minutesBetween(dayStart, dayEnd),
		}}
	}

	freeSlots := make([]domain.FreeSlot, 0)
	buffer := time.Duration(params.BufferMinutes) * time.Minute
	currentTime := dayStart

	for _, event := range dayEvents {
		bufferedStart := event.Start.Add(-buffer)
		bufferedEnd := event.End.Add(buffer)

		clampedStart := maxTime(dayStart, bufferedStart)
		clampedEnd := minTime(dayEnd, bufferedEnd)

		if clampedStart.After(currentTime) {
			gap := minutesBetween(currentTime, clampedStart)
			if gap >= params.DurationMinutes {
				freeSlots = append(freeSlots, domain.FreeSlot{
					Date:            dateKey,
					Start:           currentTime,
					End:             clampedStart,
					DurationMinutes: gap,
				})
			}
		}

		currentTime = maxTime(currentTime, clampedEnd)
	}

	// 最後のイベント以降の空き
	if currentTime.Before(dayEnd) {
		gap := minutesBetween(currentTime, dayEnd)
		if gap >= params.DurationMinutes {
			freeSlots = append(freeSlots, domain.FreeSlot{
				Date:            dateKey,
				Start:           currentTime,
				End:             dayEnd,
				DurationMinutes: gap,
			})
		}
	}

	// 予定はあるが空きがなかった日も下流で表現できるようプレースホルダを残す
	if len(freeSlots) == 0 {
		freeSlots = append(freeSlots, domain.FreeSlot{
			Date:   dateKey,
			Start:  dayStart,
			End:    dayStart,
			NoFree: true,
		})
	}

	return freeSlots
}

func isWeekend(day time.Time) bool {
	return day.Weekday() == time.Saturday || day.Weekday() == time.Sunday
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
