package textparse

import (
	"regexp"
	"strings"
	"time"
)

var (
	// 11時30分 -> 11:30
	reJPHourMinute = regexp.MustCompile(`(\d{1,2})\s*時\s*(\d{1,2})\s*分`)
	// 11時 -> 11:00
	reJPHour = regexp.MustCompile(`(\d{1,2})\s*時`)

	// 1) 24時間表記: HH:MM - HH:MM
	re24HourRange = regexp.MustCompile(`(\d{1,2})[:：](\d{2})\s*-\s*(\d{1,2})[:：](\d{2})`)
	// 2) 午前/午後・AM/PM 付き、分は省略可: 午前9:30-午後1 / 9am-10:15am
	reAMPMRange = regexp.MustCompile(`(?i)(午前|午後|am|pm|a\.m\.|p\.m\.)?\s*(\d{1,2})(?:[:：](\d{2}))?\s*-\s*(午前|午後|am|pm|a\.m\.|p\.m\.)?\s*(\d{1,2})(?:[:：](\d{2}))?`)
	// 3) 時のみ: 9-10
	reBareHourRange = regexp.MustCompile(`\b(\d{1,2})\s*-\s*(\d{1,2})\b`)

	reAllDay = regexp.MustCompile(`(?i)終日|all\s*day`)

	dashNormalizer = strings.NewReplacer("–", "-", "−", "-", "〜", "-", "～", "-")
)

// ParseTimeRange テキストから時間帯を抽出し、base と同じ日のタイムスタンプとして返す。
// ダッシュ類と日本語の時分表記を正規化した後、
// 24時間表記 → 午前午後/AMPM表記 → 時のみ表記 の順で試す。
func ParseTimeRange(text string, base time.Time) (start, end time.Time, ok bool) {
	if text == "" {
		return time.Time{}, time.Time{}, false
	}

	str := dashNormalizer.Replace(text)
	str = reJPHourMinute.ReplaceAllString(str, "$1:$2")
	str = reJPHour.ReplaceAllString(str, "$1:00")

	if m := re24HourRange.FindStringSubmatch(str); m != nil {
		start = atTime(base, atoi(m[1]), atoi(m[2]))
		end = atTime(base, atoi(m[3]), atoi(m[4]))
		return start, end, true
	}

	if m := reAMPMRange.FindStringSubmatch(str); m != nil {
		h1, mm1 := to24Hour(atoi(m[2]), optionalMinute(m[3]), m[1])
		h2, mm2 := to24Hour(atoi(m[5]), optionalMinute(m[6]), m[4])
		start = atTime(base, h1, mm1)
		end = atTime(base, h2, mm2)
		return start, end, true
	}

	if m := reBareHourRange.FindStringSubmatch(str); m != nil {
		start = atTime(base, atoi(m[1]), 0)
		end = atTime(base, atoi(m[2]), 0)
		return start, end, true
	}

	return time.Time{}, time.Time{}, false
}

// IsAllDayLabel 終日予定を示すラベルかどうかを判定する
func IsAllDayLabel(text string) bool {
	if text == "" {
		return false
	}
	return reAllDay.MatchString(text)
}

// to24Hour 12時間表記を24時間表記に変換する。
// 正午・深夜0時の規則: PM は時 < 12 のときのみ +12（12PM は 12 のまま）、
// AM は 12 を 0 に写す。
func to24Hour(hour, minute int, marker string) (int, int) {
	m := strings.ToLower(marker)
	switch {
	case strings.Contains(m, "pm") || strings.Contains(m, "午後"):
		if hour < 12 {
			hour += 12
		}
	case strings.Contains(m, "am") || strings.Contains(m, "午前"):
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

func optionalMinute(s string) int {
	if s == "" {
		return 0
	}
	return atoi(s)
}

// atTime base と同じ暦日に時刻を設定したタイムスタンプを返す
func atTime(base time.Time, hour, minute int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}
