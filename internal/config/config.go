package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/joho/godotenv"

	"github.com/s-fujino/google-calendar-free-slot-finder/internal/domain"
)

// SSMParameterGetter SSM GetParameter 呼び出しの抽象（テスト用）
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// Google Calendar設定
	GoogleCredentials string
	CalendarID        string

	// LINE API設定
	LineChannelAccessToken string
	LineUserID             string

	// 空き時間検索のデフォルト設定
	WorkStartTime   string // 業務開始時刻 "HH:MM"
	WorkEndTime     string // 業務終了時刻 "HH:MM"
	DurationMinutes int    // 最低空き時間（分）
	BufferMinutes   int    // 予定前後の余裕（分）
	HorizonDays     int    // 今日から何日先まで検索するか
	IncludeAllDay   bool
	IncludeWeekends bool
	UseFreeBusy     bool // イベント一覧の代わりに freeBusy API で予定あり区間を取得する

	// その他設定
	LogLevel string
	Timezone string

	// AWS関連（本番環境でのみ使用）
	ssmClient SSMParameterGetter
}

// Load 環境に応じて設定を読み込み
func Load() (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig()
	}
	return loadLocalConfig()
}

// loadLocalConfig ローカル開発環境用の設定読み込み
func loadLocalConfig() (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .envファイルが見つかりません: %v\n", err)
	}

	cfg := &Config{
		GoogleCredentials:      getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		CalendarID:             getEnvOrDefault("CALENDAR_ID", "primary"),
		LineChannelAccessToken: getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineUserID:             getEnvOrDefault("LINE_USER_ID", ""),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "INFO"),
		Timezone:               getEnvOrDefault("TIMEZONE", "Asia/Tokyo"),
	}
	cfg.loadSearchSettings()

	// 必須設定項目の確認
	if cfg.GoogleCredentials == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS環境変数が設定されていません")
	}
	if cfg.LineChannelAccessToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN環境変数が設定されていません")
	}
	if cfg.LineUserID == "" {
		return nil, fmt.Errorf("LINE_USER_ID環境変数が設定されていません")
	}

	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig() (*Config, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %v", err)
	}

	cfg := &Config{
		CalendarID: getEnvOrDefault("CALENDAR_ID", "primary"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "INFO"),
		Timezone:   getEnvOrDefault("TIMEZONE", "Asia/Tokyo"),
		ssmClient:  ssm.NewFromConfig(awsConfig),
	}
	cfg.loadSearchSettings()

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(); err != nil {
		return nil, fmt.Errorf("Parameter Storeからの設定読み込みに失敗しました: %v", err)
	}

	return cfg, nil
}

// loadSearchSettings 空き時間検索のデフォルト設定を環境変数から読み込む。
// 数値は domain.SearchParams.Normalize で境界値にクランプされるため
// ここでは範囲チェックを行わない。
func (c *Config) loadSearchSettings() {
	c.WorkStartTime = getEnvOrDefault("WORK_START_TIME", "09:00")
	c.WorkEndTime = getEnvOrDefault("WORK_END_TIME", "20:00")
	c.DurationMinutes = getEnvIntOrDefault("DURATION_MINUTES", 30)
	c.BufferMinutes = getEnvIntOrDefault("BUFFER_MINUTES", 15)
	c.HorizonDays = getEnvIntOrDefault("HORIZON_DAYS", 7)
	c.IncludeAllDay = getEnvBoolOrDefault("INCLUDE_ALL_DAY", true)
	c.IncludeWeekends = getEnvBoolOrDefault("INCLUDE_WEEKENDS", true)
	c.UseFreeBusy = getEnvBoolOrDefault("USE_FREE_BUSY", false)
}

// SearchParams 設定から1回分の検索パラメータを構築する
func (c *Config) SearchParams(now time.Time) domain.SearchParams {
	today := domain.DateOnly(now)
	params := domain.SearchParams{
		StartDate:       today,
		EndDate:         today.AddDate(0, 0, c.HorizonDays),
		StartTime:       c.WorkStartTime,
		EndTime:         c.WorkEndTime,
		DurationMinutes: c.DurationMinutes,
		BufferMinutes:   c.BufferMinutes,
		IncludeAllDay:   c.IncludeAllDay,
		IncludeWeekends: c.IncludeWeekends,
	}
	params.Normalize(now)
	return params
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore() error {
	ctx := context.TODO()

	googleCredsParam := getEnvOrDefault("GOOGLE_CREDS_PARAM", "/free-slot-finder/google-creds")
	googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
	if err != nil {
		return fmt.Errorf("Google認証情報の取得に失敗しました: %v", err)
	}
	c.GoogleCredentials = googleCreds

	lineTokenParam := getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN_PARAM", "/free-slot-finder/line-channel-access-token")
	lineToken, err := c.getParameter(ctx, lineTokenParam, true)
	if err != nil {
		return fmt.Errorf("LINE Channel Access Tokenの取得に失敗しました: %v", err)
	}
	c.LineChannelAccessToken = lineToken

	lineUserParam := getEnvOrDefault("LINE_USER_ID_PARAM", "/free-slot-finder/line-user-id")
	lineUser, err := c.getParameter(ctx, lineUserParam, true)
	if err != nil {
		return fmt.Errorf("LINE User IDの取得に失敗しました: %v", err)
	}
	c.LineUserID = lineUser

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %v", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("パラメータ %s が空です", paramName)
	}

	return *result.Parameter.Value, nil
}

// Location タイムゾーン設定を time.Location に変換する
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("タイムゾーン %s の読み込みに失敗しました: %v", c.Timezone, err)
	}
	return loc, nil
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault 整数の環境変数を取得し、未設定・解析不能の場合はデフォルト値を返す
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Warning: %s の値 %q を整数として解析できません。デフォルト値 %d を使用します\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvBoolOrDefault 真偽値の環境変数を取得し、未設定・解析不能の場合はデフォルト値を返す
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		fmt.Printf("Warning: %s の値 %q を真偽値として解析できません。デフォルト値 %t を使用します\n", key, value, defaultValue)
		return defaultValue
	}
	return b
}
