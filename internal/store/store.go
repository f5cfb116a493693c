package store

import "github.com/hvu/timeblock/internal/model"

// DaySource is the persistence boundary for day buckets. Storage is one
// document per calendar date, addressed by its YYYY-MM-DD key; an absent
// day is an empty one, never an error.
type DaySource interface {
	LoadDay(dateKey string) ([]model.Entry, error)
	SaveDay(dateKey string, entries []model.Entry) error
}
