// Package search ранжирует записи расписания по свободному текстовому запросу.
package search

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/recurrence"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// Result запись расписания и её оценка совпадения с запросом
type Result struct {
	Entry *model.ScheduleEntry
	Score int
}

type query struct {
	raw    string
	tokens map[string]struct{}
	times  []model.ClockTime
}

// Rank оценивает записи по запросу и возвращает совпавшие по убыванию оценки.
// Оценка - число общих токенов запроса и записи, плюс 1 если запрос целиком
// встречается в описании. Разовые записи, все даты которых прошли, пропускаются.
// При равных оценках сохраняется порядок entries.
func Rank(q string, entries []*model.ScheduleEntry, now time.Time) []Result {
	fold := cases.Fold()
	parsed := parseQuery(fold, q, now)
	if len(parsed.tokens) == 0 && len(parsed.times) == 0 {
		return nil
	}

	var results []Result
	for _, e := range entries {
		if recurrence.IsStale(e, now) {
			continue
		}
		score := scoreEntry(fold, parsed, e)
		if score > 0 {
			results = append(results, Result{Entry: e, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func parseQuery(fold cases.Caser, q string, now time.Time) query {
	raw := strings.TrimSpace(fold.String(q))
	parsed := query{raw: raw, tokens: make(map[string]struct{})}

	hasWeekday := false
	for _, w := range words(timetoken.Strip(raw)) {
		if day := weekdayToken(w); day != "" {
			parsed.tokens[day] = struct{}{}
			hasWeekday = true
			continue
		}
		parsed.tokens[w] = struct{}{}
	}

	parsed.times = timetoken.FindClockTimes(raw)
	if len(parsed.times) > 0 && !hasWeekday {
		// время без дня недели - ищем на сегодня
		parsed.tokens[model.WeekdayShort[model.WeekdayOf(now)]] = struct{}{}
	}

	return parsed
}

func scoreEntry(fold cases.Caser, q query, e *model.ScheduleEntry) int {
	entryTokens := entryTokens(fold, e)
	start := e.Start.String()

	score := 0
	for token := range q.tokens {
		if _, ok := entryTokens[token]; ok {
			score++
		}
	}

	// время запроса внутри занятия засчитывается как совпадение с началом занятия
	if _, counted := q.tokens[start]; !counted {
		for _, t := range q.times {
			if e.Covers(t) {
				score++
				break
			}
		}
	}

	if q.raw != "" && strings.Contains(fold.String(e.Description), q.raw) {
		score++
	}
	return score
}

func entryTokens(fold cases.Caser, e *model.ScheduleEntry) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range words(fold.String(timetoken.Strip(e.Description))) {
		tokens[w] = struct{}{}
	}

	building := fold.String(e.Building)
	room := fold.String(e.Room)
	display := fold.String(model.DisplayRoom(e.Room))
	for _, id := range []string{
		building, room, display,
		room + building, building + room,
		display + building, building + display,
	} {
		if id != "" {
			tokens[id] = struct{}{}
		}
	}

	tokens[e.Start.String()] = struct{}{}
	if e.Weekday >= 1 && e.Weekday <= 7 {
		tokens[model.WeekdayShort[e.Weekday]] = struct{}{}
	}
	return tokens
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}

// weekdayToken приводит название дня недели к сокращению "пн".."вс"
func weekdayToken(w string) string {
	w = strings.TrimSuffix(w, ".")
	for day := 1; day <= 7; day++ {
		if w == model.WeekdayShort[day] || w == strings.ToLower(model.WeekdayName[day]) {
			return model.WeekdayShort[day]
		}
	}
	return ""
}
