package workflow

import (
	"github.com/rahaf-dev/sanad_backend/models"
	"gorm.io/gorm"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// The conflict checker deliberately keeps two distinct overlap semantics:
// session-vs-session uses exact (date, time) slot equality, while
// vacation-vs-session uses inclusive date-range containment. Both are pure
// predicates; callers run them inside the same transaction as the write.

// SlotTaken reports whether a committed session already occupies the exact
// (specialist, date, time) slot. excludeID lets an in-place edit or a
// reschedule decision check against every session but the one being changed.
func SlotTaken(tx *gorm.DB, specialistID uint, date, timeOfDay string, excludeID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Session{}).
		Where("specialist_id = ? AND date = ? AND time = ? AND status IN ?",
			specialistID, date, timeOfDay, models.CommittedSessionStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, Internal(err)
	}
	return count > 0, nil
}

// VacationOverlaps reports whether any committed session for the specialist
// falls on a date within [startDate, endDate], both ends inclusive.
func VacationOverlaps(tx *gorm.DB, specialistID uint, startDate, endDate string) (bool, error) {
	var count int64
	err := tx.Model(&models.Session{}).
		Where("specialist_id = ? AND date >= ? AND date <= ? AND status IN ?",
			specialistID, startDate, endDate, models.CommittedSessionStatuses).
		Count(&count).Error
	if err != nil {
		return false, Internal(err)
	}
	return count > 0, nil
}

// CommittedSessionDates returns the distinct dates on which the specialist
// has a committed session. Past dates are not filtered here; the caller
// excludes them.
func CommittedSessionDates(tx *gorm.DB, specialistID uint) ([]string, error) {
	var dates []string
	err := tx.Model(&models.Session{}).
		Distinct("date").
		Where("specialist_id = ? AND status IN ?", specialistID, models.CommittedSessionStatuses).
		Order("date asc").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, Internal(err)
	}
	return dates, nil
}
