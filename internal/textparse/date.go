// Package textparse は予定テキスト断片から日付・時間帯を抽出する純粋関数群。
// 副作用・I/Oを持たず、マッチ失敗は ok=false で返す（panicしない）。
package textparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// YYYY-MM-DD / YYYY/M/D
	reNumericDate = regexp.MustCompile(`(\d{4})[/-](\d{1,2})[/-](\d{1,2})`)
	// YYYY年 M月 D日
	reFullJPDate = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	// M月 D日
	rePartialJPDate = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	// September 10, 2025 / Sep 10
	reEnglishDate = regexp.MustCompile(`([A-Za-z]+)\s+(\d{1,2})(?:,\s*(\d{4}))?`)
)

// 英語月名は先頭3文字（小文字）で照合する
var monthPrefixes = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// dateRule 日付表記1種類に対応するマッチャー
type dateRule func(text string, base time.Time) (time.Time, bool)

// dateRules は表記の具体性が高い順に並べる。
// 完全修飾の表記を部分表記より先に試すことで曖昧さを避ける。
var dateRules = []dateRule{
	parseNumericDate,
	parseFullJPDate,
	parsePartialJPDate,
	parseEnglishDate,
}

// ParseDate テキストから日付を抽出する。
// 数値表記 → 日本語完全表記 → 日本語部分表記 → 英語表記 の優先順で試し、
// 最初にマッチした結果を返す。
func ParseDate(text string, base time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	for _, rule := range dateRules {
		if d, ok := rule(text, base); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseLastJPDate テキスト中の「最後に現れる」日本語日付を返す。
// 完全表記（YYYY年M月D日）がひとつでもあれば完全表記の最後を優先し、
// なければ部分表記（M月D日）の最後を返す。
// 断片は説明文の後ろに日付スタンプを持つことが多いため、右端を採用する。
func ParseLastJPDate(text string, base time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	if ms := reFullJPDate.FindAllStringSubmatch(text, -1); len(ms) > 0 {
		m := ms[len(ms)-1]
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), locationOf(base)), true
	}

	if ms := rePartialJPDate.FindAllStringSubmatch(text, -1); len(ms) > 0 {
		m := ms[len(ms)-1]
		return makeDate(yearOf(base), atoi(m[1]), atoi(m[2]), locationOf(base)), true
	}

	return time.Time{}, false
}

// ParseRelativeJPDate 「今日」「明日」の相対表記を base 基準の日付に変換する。
// base がゼロ値の場合は現在時刻を基準にする。時刻部分は切り捨てる。
func ParseRelativeJPDate(text string, base time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if base.IsZero() {
		base = time.Now()
	}
	day := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())

	if strings.Contains(text, "今日") {
		return day, true
	}
	if strings.Contains(text, "明日") {
		return day.AddDate(0, 0, 1), true
	}
	return time.Time{}, false
}

func parseNumericDate(text string, base time.Time) (time.Time, bool) {
	m := reNumericDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), locationOf(base)), true
}

func parseFullJPDate(text string, base time.Time) (time.Time, bool) {
	m := reFullJPDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), locationOf(base)), true
}

func parsePartialJPDate(text string, base time.Time) (time.Time, bool) {
	m := rePartialJPDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return makeDate(yearOf(base), atoi(m[1]), atoi(m[2]), locationOf(base)), true
}

func parseEnglishDate(text string, base time.Time) (time.Time, bool) {
	m := reEnglishDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	name := strings.ToLower(m[1])
	if len(name) < 3 {
		return time.Time{}, false
	}
	month, ok := monthPrefixes[name[:3]]
	if !ok {
		return time.Time{}, false
	}
	year := yearOf(base)
	if m[3] != "" {
		year = atoi(m[3])
	}
	return time.Date(year, month, atoi(m[2]), 0, 0, 0, 0, locationOf(base)), true
}

// yearOf base の年を返す。base がゼロ値の場合は現在の年。
func yearOf(base time.Time) int {
	if base.IsZero() {
		return time.Now().Year()
	}
	return base.Year()
}

func locationOf(base time.Time) *time.Location {
	if base.IsZero() {
		return time.Local
	}
	return base.Location()
}

func makeDate(year, month, day int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// atoi 正規表現で数字にマッチ済みの文字列を変換する
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
