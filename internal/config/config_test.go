package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSSMClient は SSMParameterGetter のテスト用モック
type MockSSMClient struct {
	mock.Mock
}

func (m *MockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParameterOutput), args.Error(1)
}

// --- getEnvOrDefault テスト ---

func TestGetEnvOrDefault_WithValue(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "test-value")
	result := getEnvOrDefault("TEST_ENV_KEY", "default")
	assert.Equal(t, "test-value", result)
}

func TestGetEnvOrDefault_WithDefault(t *testing.T) {
	result := getEnvOrDefault("NONEXISTENT_KEY_FOR_TEST_12345", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetEnvOrDefault_TrimsWhitespace(t *testing.T) {
	t.Setenv("TEST_ENV_WHITESPACE", "  trimmed  ")
	result := getEnvOrDefault("TEST_ENV_WHITESPACE", "default")
	assert.Equal(t, "trimmed", result)
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "45")
	assert.Equal(t, 45, getEnvIntOrDefault("TEST_ENV_INT", 30))

	t.Setenv("TEST_ENV_INT", "not-a-number")
	assert.Equal(t, 30, getEnvIntOrDefault("TEST_ENV_INT", 30))

	assert.Equal(t, 30, getEnvIntOrDefault("NONEXISTENT_INT_KEY_12345", 30))
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "false")
	assert.False(t, getEnvBoolOrDefault("TEST_ENV_BOOL", true))

	t.Setenv("TEST_ENV_BOOL", "not-a-bool")
	assert.True(t, getEnvBoolOrDefault("TEST_ENV_BOOL", true))

	assert.True(t, getEnvBoolOrDefault("NONEXISTENT_BOOL_KEY_12345", true))
}

// --- 検索設定テスト ---

func TestLoadSearchSettings_Defaults(t *testing.T) {
	t.Setenv("WORK_START_TIME", "")
	t.Setenv("WORK_END_TIME", "")
	t.Setenv("DURATION_MINUTES", "")
	t.Setenv("BUFFER_MINUTES", "")
	t.Setenv("HORIZON_DAYS", "")
	t.Setenv("INCLUDE_ALL_DAY", "")
	t.Setenv("INCLUDE_WEEKENDS", "")
	t.Setenv("USE_FREE_BUSY", "")

	cfg := &Config{}
	cfg.loadSearchSettings()

	assert.Equal(t, "09:00", cfg.WorkStartTime)
	assert.Equal(t, "20:00", cfg.WorkEndTime)
	assert.Equal(t, 30, cfg.DurationMinutes)
	assert.Equal(t, 15, cfg.BufferMinutes)
	assert.Equal(t, 7, cfg.HorizonDays)
	assert.True(t, cfg.IncludeAllDay)
	assert.True(t, cfg.IncludeWeekends)
	assert.False(t, cfg.UseFreeBusy)
}

func TestLoadSearchSettings_FromEnv(t *testing.T) {
	t.Setenv("WORK_START_TIME", "10:00")
	t.Setenv("WORK_END_TIME", "18:30")
	t.Setenv("DURATION_MINUTES", "60")
	t.Setenv("BUFFER_MINUTES", "0")
	t.Setenv("HORIZON_DAYS", "14")
	t.Setenv("INCLUDE_ALL_DAY", "false")
	t.Setenv("INCLUDE_WEEKENDS", "false")
	t.Setenv("USE_FREE_BUSY", "true")

	cfg := &Config{}
	cfg.loadSearchSettings()

	assert.Equal(t, "10:00", cfg.WorkStartTime)
	assert.Equal(t, "18:30", cfg.WorkEndTime)
	assert.Equal(t, 60, cfg.DurationMinutes)
	assert.Equal(t, 0, cfg.BufferMinutes)
	assert.Equal(t, 14, cfg.HorizonDays)
	assert.False(t, cfg.IncludeAllDay)
	assert.False(t, cfg.IncludeWeekends)
	assert.True(t, cfg.UseFreeBusy)
}

func TestSearchParams_BuildsNormalizedParams(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 1, 15, 13, 45, 0, 0, jst)

	cfg := &Config{
		WorkStartTime:   "09:00",
		WorkEndTime:     "18:00",
		DurationMinutes: 500, // 上限 240 にクランプされる
		BufferMinutes:   15,
		HorizonDays:     7,
		IncludeWeekends: true,
	}

	params := cfg.SearchParams(now)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, jst), params.StartDate)
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, jst), params.EndDate)
	assert.Equal(t, 240, params.DurationMinutes)
	assert.Equal(t, "09:00", params.StartTime)
}

// --- loadLocalConfig テスト ---

func TestLoadLocalConfig_MissingRequired(t *testing.T) {
	// 必須環境変数が未設定の状態をシミュレート
	t.Setenv("GOOGLE_CREDENTIALS", "")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "")
	t.Setenv("LINE_USER_ID", "")

	_, err := loadLocalConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "環境変数が設定されていません")
}

// --- Location テスト ---

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Tokyo"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLocation_Invalid(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	_, err := cfg.Location()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "タイムゾーン")
}

// --- getParameter テスト（モック使用） ---

func TestGetParameter_Success(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	output := &ssm.GetParameterOutput{
		Parameter: &types.Parameter{
			Value: aws.String("test-value"),
		},
	}

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/test/param" && *input.WithDecryption == true
	})).Return(output, nil)

	result, err := cfg.getParameter(context.Background(), "/test/param", true)
	require.NoError(t, err)
	assert.Equal(t, "test-value", result)
	mockSSM.AssertExpectations(t)
}

func TestGetParameter_EmptyParameter(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	output := &ssm.GetParameterOutput{}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(output, nil)

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "パラメータ /test/param が空です")
}

func TestGetParameter_APIError(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(nil, errors.New("SSM API error"))

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "パラメータ /test/param の取得に失敗しました")
	mockSSM.AssertExpectations(t)
}

func TestLoadFromParameterStore(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	// デフォルトのパラメータ名を使用させるため環境変数をクリア
	t.Setenv("GOOGLE_CREDS_PARAM", "")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN_PARAM", "")
	t.Setenv("LINE_USER_ID_PARAM", "")

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/free-slot-finder/google-creds"
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String(`{"type":"service_account"}`)},
	}, nil)

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/free-slot-finder/line-channel-access-token"
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("line-token-value")},
	}, nil)

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/free-slot-finder/line-user-id"
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("line-user-id-value")},
	}, nil)

	err := cfg.loadFromParameterStore()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, cfg.GoogleCredentials)
	assert.Equal(t, "line-token-value", cfg.LineChannelAccessToken)
	assert.Equal(t, "line-user-id-value", cfg.LineUserID)
	mockSSM.AssertExpectations(t)
}
