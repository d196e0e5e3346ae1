package services

import (
	"errors"

	"gorm.io/gorm"

	"spa-booking-server/database"
	"spa-booking-server/models"
)

// RecordBookingNotification claims the per-(booking, user) delivery slot
// before anything is sent. The unique index on the log table is the dedup
// guard: false means another dispatch already covered this recipient and the
// caller must not send again.
func RecordBookingNotification(bookingID string, userID uint) (bool, error) {
	entry := models.NotificationLog{BookingID: bookingID, UserID: userID}
	if err := database.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
