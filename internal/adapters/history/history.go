// Package history provides history store adapters.
// Clean Architecture: Adapters implementing ports.HistoryStore.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/metrics"
)

const (
	opSave = "history.save"
	opList = "history.list"
)

// stamper assigns identity and creation time to new records.
type stamper struct {
	newID func() string
	now   func() time.Time
}

func defaultStamper() stamper {
	return stamper{
		newID: func() string { return uuid.NewString() },
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s stamper) record(category string, lat, lon *float64, result entities.RecommendationResult) entities.HistoryRecord {
	return entities.HistoryRecord{
		ID:        s.newID(),
		Category:  category,
		Lat:       copyFloat(lat),
		Lon:       copyFloat(lon),
		Result:    result,
		CreatedAt: s.now(),
	}
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func conflict(err error) error {
	return entities.NewError(entities.PersistenceConflict, opSave, "Record already exists", err)
}

func unavailable(op string, err error) error {
	return entities.NewError(entities.PersistenceUnavailable, op, "Database Error", err)
}

func observeSave(driver string, err error) {
	outcome := "success"
	if err != nil {
		outcome = entities.KindOf(err).String()
	}
	metrics.HistorySaves.WithLabelValues(driver, outcome).Inc()
}
