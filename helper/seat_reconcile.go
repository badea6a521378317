package helper

import (
	"bus_portal/database"
	"bus_portal/ledger"
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

var reconcileCron *cron.Cron

func reconcileSeatCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	drifts, err := ledger.ReconcileScheduledTrips(ctx, database.DB)
	if err != nil {
		log.Printf("[CRON] seat reconcile failed: %v", err)
		return
	}
	for _, d := range drifts {
		log.Printf("[CRON] trip %d availableSeats drift repaired %d -> %d", d.TripId, d.Before, d.After)
	}
}

func StartSeatReconciler() {
	reconcileCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := reconcileCron.AddFunc("*/10 * * * *", reconcileSeatCounters); err != nil {
		log.Printf("Failed to schedule seat reconciler: %v", err)
		return
	}
	reconcileCron.Start()
	log.Println("Seat counter reconciler started (every 10 minutes)")
}

func StopSeatReconciler() {
	if reconcileCron != nil {
		<-reconcileCron.Stop().Done()
	}
}
