package availability

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// PlanKey ключ кэша планов дня
type PlanKey struct {
	Date     string // YYYY-MM-DD
	Building string
	Variant  string
}

// NewPlanKey строит ключ кэша для даты, корпуса и варианта расчёта
func NewPlanKey(date time.Time, building, variant string) PlanKey {
	return PlanKey{Date: date.Format(time.DateOnly), Building: building, Variant: variant}
}

// PlanCache кэш планов дня с ограниченным временем жизни.
// Хранит только данные расписания; ручные отметки в кэш не попадают.
type PlanCache struct {
	lru *expirable.LRU[PlanKey, *DayPlan]
}

// NewPlanCache создаёт кэш на size записей с временем жизни ttl
func NewPlanCache(size int, ttl time.Duration) *PlanCache {
	if size <= 0 {
		size = 256
	}
	return &PlanCache{lru: expirable.NewLRU[PlanKey, *DayPlan](size, nil, ttl)}
}

func (c *PlanCache) Get(key PlanKey) (*DayPlan, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *PlanCache) Add(key PlanKey, plan *DayPlan) {
	if c == nil {
		return
	}
	c.lru.Add(key, plan)
}

// Purge сбрасывает кэш после изменения расписания
func (c *PlanCache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *PlanCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
