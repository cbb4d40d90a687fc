package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/config"
	"github.com/s-fujino/google-calendar-free-slot-finder/internal/gateway"
	"github.com/s-fujino/google-calendar-free-slot-finder/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	// EventBridge Schedulerからの実行なので特に使用しない
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// handler Lambda関数のメインハンドラー
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {

	// 設定を読み込み
	cfg, err := config.Load()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "設定読み込みエラー",
		}, err
	}

	timezone, err := cfg.Location()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "タイムゾーン設定エラー",
		}, err
	}

	// Google Calendarイベントソースを初期化
	calendarRepo, err := gateway.NewGoogleCalendarRepository(
		[]byte(cfg.GoogleCredentials), cfg.CalendarID, timezone)
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "Google Calendar初期化エラー",
		}, err
	}

	// イベントソースを選択（通常はイベント一覧、設定により freeBusy）
	var source usecase.EventSource = calendarRepo
	if cfg.UseFreeBusy {
		source = gateway.NewFreeBusySource(calendarRepo)
	}

	// LINE通知クライアントを初期化
	lineNotifier := gateway.NewLINENotifier(
		cfg.LineChannelAccessToken, cfg.LineUserID, timezone)

	// 空き時間検索・通知を実行
	uc := usecase.NewSearchFreeSlotsUseCase(source, lineNotifier)
	params := cfg.SearchParams(time.Now().In(timezone))

	message, err := uc.Execute(ctx, params)
	if err != nil {
		log.Printf("空き時間検索・通知に失敗しました: %v", err)
		return LambdaResponse{
			StatusCode: 500,
			Message:    "空き時間検索エラー",
		}, err
	}

	log.Printf("空き時間通知を送信しました:\n%s", message)
	return LambdaResponse{
		StatusCode: 200,
		Message:    "通知送信完了",
	}, nil
}

func main() {
	lambda.Start(handler)
}
