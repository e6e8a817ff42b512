package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/availability"
	"github.com/Freeeeeet/roomstatus_bot/internal/model"
	"github.com/Freeeeeet/roomstatus_bot/internal/recurrence"
	"github.com/Freeeeeet/roomstatus_bot/internal/roomstate"
	"github.com/Freeeeeet/roomstatus_bot/internal/timetoken"
)

// AddMode как часто проходит добавляемое занятие
type AddMode string

const (
	AddOnce        AddMode = "once"    // только в дату Date
	AddWeeklyUntil AddMode = "until"   // каждую неделю с Date по Until
	AddForever     AddMode = "forever" // каждую неделю без ограничения
)

// AddRequest данные формы добавления занятия
type AddRequest struct {
	Building    string
	Room        string
	Description string
	Start       string // HH:MM
	Finish      string // HH:MM
	Mode        AddMode
	Date        time.Time
	Until       time.Time // для AddWeeklyUntil
	Weekdays    []int     // дополнительные дни недели для еженедельных режимов
}

// UpdateRequest правка существующего занятия. Даты занятия сохраняются.
type UpdateRequest struct {
	ID          int64
	Description string // без дат
	Start       string
	Finish      string
}

type ScheduleService struct {
	store   ScheduleStore
	planner *Planner
	locks   *roomstate.Locks
	now     Clock
	logger  *zap.Logger
}

func NewScheduleService(store ScheduleStore, planner *Planner, now Clock, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		store:   store,
		planner: planner,
		locks:   roomstate.NewLocks(),
		now:     now,
		logger:  logger,
	}
}

// CheckConflict возвращает первое занятие аудитории, пересекающееся с [start, finish) в дату date
func (s *ScheduleService) CheckConflict(ctx context.Context, key model.RoomKey, date time.Time, start, finish model.ClockTime) (*model.ScheduleEntry, error) {
	entries, err := s.store.ListByRoom(ctx, key, model.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("check conflict: %w", err)
	}
	return availability.FindConflict(entries, date, start, finish), nil
}

// Add добавляет занятие: по записи на каждый день недели, с общим GroupID.
// При пересечении с существующим занятием возвращает *ConflictError.
func (s *ScheduleService) Add(ctx context.Context, req AddRequest) ([]*model.ScheduleEntry, error) {
	entries, err := s.buildEntries(req)
	if err != nil {
		return nil, err
	}

	key := entries[0].Key()
	unlock := s.locks.Lock(key)
	defer unlock()

	today := dateOf(s.now())
	err = s.store.InsertChecked(ctx, entries, func(existing []*model.ScheduleEntry) error {
		for _, e := range entries {
			if err := checkEntry(existing, e, today); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, fmt.Errorf("add entries: %w", err)
	}

	s.planner.Invalidate()
	s.logger.Info("Schedule entries added",
		zap.String("room", key.String()),
		zap.String("group_id", entries[0].GroupID.String()),
		zap.Int("count", len(entries)),
	)

	return entries, nil
}

// Update меняет описание и время занятия. Последняя запись побеждает.
func (s *ScheduleService) Update(ctx context.Context, req UpdateRequest) (*model.ScheduleEntry, error) {
	old, err := s.store.GetByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if old == nil {
		return nil, ErrEntryNotFound
	}

	var verr ValidationError
	start, finish := parseWindow(&verr, req.Start, req.Finish)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	updated := *old
	updated.Description = joinDescription(timetoken.Strip(req.Description), DateSuffix(old.Recurrence))
	updated.Recurrence = timetoken.Recurrence(updated.Description)
	updated.Start = start
	updated.Finish = finish

	unlock := s.locks.Lock(updated.Key())
	defer unlock()

	today := dateOf(s.now())
	found, err := s.store.UpdateChecked(ctx, &updated, func(existing []*model.ScheduleEntry) error {
		others := make([]*model.ScheduleEntry, 0, len(existing))
		for _, e := range existing {
			if e.ID != updated.ID {
				others = append(others, e)
			}
		}
		return checkEntry(others, &updated, today)
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if !found {
		return nil, ErrEntryNotFound
	}

	s.planner.Invalidate()
	s.logger.Info("Schedule entry updated", zap.Int64("entry_id", updated.ID))

	return &updated, nil
}

// Delete удаляет занятие
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if !deleted {
		return ErrEntryNotFound
	}

	s.planner.Invalidate()
	s.logger.Info("Schedule entry deleted", zap.Int64("entry_id", id))
	return nil
}

// DeleteGroup удаляет занятие вместе со всеми записями, добавленными
// тем же действием (другие дни недели той же формы)
func (s *ScheduleService) DeleteGroup(ctx context.Context, id int64) (int64, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	n, err := s.store.DeleteGroup(ctx, entry.GroupID)
	if err != nil {
		return 0, fmt.Errorf("delete entry group: %w", err)
	}

	s.planner.Invalidate()
	s.logger.Info("Schedule entry group deleted",
		zap.Int64("entry_id", id),
		zap.String("group_id", entry.GroupID.String()),
		zap.Int64("rows", n),
	)
	return n, nil
}

// DayEntries возвращает все занятия корпуса в дату date, сгруппированные по аудиториям
func (s *ScheduleService) DayEntries(ctx context.Context, date time.Time, building string) (*availability.DayPlan, error) {
	plan, err := s.planner.DayPlan(ctx, date, building)
	if err != nil {
		return nil, fmt.Errorf("day entries: %w", err)
	}
	return plan, nil
}

// Get возвращает занятие по ID
func (s *ScheduleService) Get(ctx context.Context, id int64) (*model.ScheduleEntry, error) {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// FindEntries возвращает занятия аудитории, проходящие в дату date
func (s *ScheduleService) FindEntries(ctx context.Context, key model.RoomKey, date time.Time) ([]*model.ScheduleEntry, error) {
	entries, err := s.store.ListByRoom(ctx, key, model.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("find entries: %w", err)
	}
	return availability.Applicable(entries, date), nil
}

// Ingest заменяет расписание выгрузкой. Правила повторения разбираются
// здесь один раз; строки с некорректным временем или днём недели пропускаются.
func (s *ScheduleService) Ingest(ctx context.Context, rows []*model.ScheduleEntry) (int64, error) {
	valid := make([]*model.ScheduleEntry, 0, len(rows))
	for _, e := range rows {
		if e.Weekday < 1 || e.Weekday > 7 || !e.Start.Valid() || !e.Finish.Valid() || e.Start >= e.Finish {
			s.logger.Warn("Skipping malformed schedule row",
				zap.String("room", e.Key().String()),
				zap.Int("day", e.Weekday),
				clockField("start", e.Start),
				clockField("finish", e.Finish),
			)
			continue
		}
		if e.GroupID == uuid.Nil {
			e.GroupID = uuid.New()
		}
		e.Recurrence = timetoken.Recurrence(e.Description)
		valid = append(valid, e)
	}

	n, err := s.store.ReplaceAll(ctx, valid)
	if err != nil {
		return 0, fmt.Errorf("ingest schedule: %w", err)
	}

	s.planner.Invalidate()
	s.logger.Info("Schedule ingested",
		zap.Int64("rows", n),
		zap.Int("skipped", len(rows)-len(valid)),
	)
	return n, nil
}

// clockField время для лога; значения вне суток пишутся как "invalid"
func clockField(key string, t model.ClockTime) zap.Field {
	if !t.Valid() {
		return zap.String(key, "invalid")
	}
	return zap.String(key, t.String())
}

func (s *ScheduleService) buildEntries(req AddRequest) ([]*model.ScheduleEntry, error) {
	var verr ValidationError

	if req.Building == "" {
		verr.add("building", "не указан корпус")
	}
	if req.Room == "" {
		verr.add("room", "не указана аудитория")
	}
	start, finish := parseWindow(&verr, req.Start, req.Finish)

	today := dateOf(s.now())
	date := dateOf(req.Date)
	if req.Date.IsZero() {
		date = today
	}
	if date.Before(today) {
		verr.add("date", "дата уже прошла")
	}

	var suffix string
	switch req.Mode {
	case AddOnce:
		suffix = model.DayMonthOf(date).String()
	case AddWeeklyUntil:
		until := dateOf(req.Until)
		switch {
		case req.Until.IsZero() || until.Before(date):
			verr.add("until", "дата окончания раньше даты начала")
		case !until.Before(date.AddDate(1, 0, 0)):
			// диапазон хранится без года, за год и больше он замкнётся сам на себя
			verr.add("until", "период не может быть длиннее года")
		}
		suffix = model.DayMonthOf(date).String() + "-" + model.DayMonthOf(until).String()
	case AddForever:
	default:
		verr.add("mode", "неизвестный режим повторения")
	}

	weekdays := []int{model.WeekdayOf(date)}
	if req.Mode != AddOnce {
		for _, wd := range req.Weekdays {
			if wd < 1 || wd > 7 {
				verr.add("weekdays", "день недели должен быть от 1 до 7")
				continue
			}
			if !containsInt(weekdays, wd) {
				weekdays = append(weekdays, wd)
			}
		}
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	description := joinDescription(timetoken.Strip(req.Description), suffix)
	rec := timetoken.Recurrence(description)
	groupID := uuid.New()

	entries := make([]*model.ScheduleEntry, 0, len(weekdays))
	for _, wd := range weekdays {
		entries = append(entries, &model.ScheduleEntry{
			GroupID:     groupID,
			Description: description,
			Building:    req.Building,
			Room:        req.Room,
			Start:       start,
			Finish:      finish,
			Weekday:     wd,
			Recurrence:  rec,
		})
	}
	return entries, nil
}

// checkEntry ищет пересечение записи e со всеми её будущими датами.
// Для бессрочной записи проверяются все занятия того же дня недели,
// которые ещё могут состояться.
func checkEntry(existing []*model.ScheduleEntry, e *model.ScheduleEntry, today time.Time) error {
	if !e.Recurrence.IsTemporary() {
		if c := availability.FindWeeklyConflict(existing, e.Weekday, model.DayMonthOf(today), e.Start, e.Finish); c != nil {
			return &ConflictError{Existing: c}
		}
		return nil
	}

	for _, date := range occurrences(e, today) {
		if c := availability.FindConflict(existing, date, e.Start, e.Finish); c != nil {
			return &ConflictError{Existing: c, Date: date}
		}
	}
	return nil
}

// occurrences даты ближайшего года, в которые проходит запись
func occurrences(e *model.ScheduleEntry, today time.Time) []time.Time {
	var out []time.Time
	for i := 0; i < 366; i++ {
		date := today.AddDate(0, 0, i)
		if recurrence.Applies(e, date) {
			out = append(out, date)
		}
	}
	return out
}

func parseWindow(verr *ValidationError, rawStart, rawFinish string) (start, finish model.ClockTime) {
	start, err := timetoken.ParseClock(rawStart)
	if err != nil {
		verr.add("start", "время должно быть в формате ЧЧ:ММ")
	}
	finish, err = timetoken.ParseClock(rawFinish)
	if err != nil {
		verr.add("finish", "время должно быть в формате ЧЧ:ММ")
	}
	if _, bad := verr.Fields["start"]; !bad {
		if _, bad := verr.Fields["finish"]; !bad && start >= finish {
			verr.add("finish", "окончание должно быть позже начала")
		}
	}
	return start, finish
}

// DateSuffix восстанавливает токен дат для правила повторения
func DateSuffix(rec model.Recurrence) string {
	switch rec.Kind {
	case model.RecurrenceOnDates:
		parts := make([]string, 0, len(rec.Dates))
		for _, d := range rec.Dates {
			parts = append(parts, d.String())
		}
		return joinWords(parts)
	case model.RecurrenceInRange:
		return rec.From.String() + "-" + rec.To.String()
	default:
		return ""
	}
}

func joinDescription(text, suffix string) string {
	return joinWords([]string{text, suffix})
}

func joinWords(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
