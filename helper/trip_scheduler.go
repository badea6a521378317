package helper

import (
	"bus_portal/constants"
	"bus_portal/database"
	"bus_portal/model"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

var tripScheduler gocron.Scheduler

// UpdateTripStatuses moves trips forward once their departure or arrival time
// has passed.
func UpdateTripStatuses(db *gorm.DB, at time.Time) (departed, completed int64) {
	res := db.Model(&model.Trip{}).
		Where("status = ? AND departure_time <= ?", constants.TRIP_SCHEDULED, at).
		Update("status", constants.TRIP_DEPARTED)
	if res.Error != nil {
		log.Printf("[CRON] failed to mark departed trips: %v", res.Error)
	}
	departed = res.RowsAffected

	res = db.Model(&model.Trip{}).
		Where("status = ? AND arrival_time <= ?", constants.TRIP_DEPARTED, at).
		Update("status", constants.TRIP_COMPLETED)
	if res.Error != nil {
		log.Printf("[CRON] failed to mark completed trips: %v", res.Error)
	}
	completed = res.RowsAffected
	return departed, completed
}

// MarkStaleMachinesOffline flips ONLINE kiosks that stopped sending heartbeats.
func MarkStaleMachinesOffline(db *gorm.DB, at time.Time, staleAfter time.Duration) int64 {
	res := db.Model(&model.Machine{}).
		Where("status = ? AND (last_heartbeat_at IS NULL OR last_heartbeat_at < ?)", constants.MACHINE_ONLINE, at.Add(-staleAfter)).
		Update("status", constants.MACHINE_OFFLINE)
	if res.Error != nil {
		log.Printf("[CRON] failed to mark stale machines: %v", res.Error)
	}
	return res.RowsAffected
}

func PurgeExpiredResetTokens(db *gorm.DB, at time.Time) int64 {
	res := db.Where("expires_at < ?", at).Delete(&model.PasswordResetToken{})
	if res.Error != nil {
		log.Printf("[CRON] failed to purge reset tokens: %v", res.Error)
	}
	return res.RowsAffected
}

func StartTripScheduler() {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Fatal(err)
	}
	tripScheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			departed, completed := UpdateTripStatuses(database.DB, now)
			if departed > 0 || completed > 0 {
				log.Printf("[CRON] trips departed=%d completed=%d", departed, completed)
			}
			if n := MarkStaleMachinesOffline(database.DB, now, 15*time.Minute); n > 0 {
				log.Printf("[CRON] %d machines went offline", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Fatal(err)
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			if n := PurgeExpiredResetTokens(database.DB, time.Now()); n > 0 {
				log.Printf("[CRON] purged %d expired reset tokens", n)
			}
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Trip scheduler started (every 5 minutes)")
}

func StopTripScheduler() {
	if tripScheduler != nil {
		if err := tripScheduler.Shutdown(); err != nil {
			log.Printf("Trip scheduler shutdown: %v", err)
		}
	}
}
