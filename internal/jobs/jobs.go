package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sakshamspr/MediLink/internal/booking"
)

// Runner owns the scheduled background work. Right now that is a single
// sweep that reports appointments whose slot was never flipped to taken.
type Runner struct {
	cron     *cron.Cron
	bookings *booking.Service
	log      *slog.Logger
}

func NewRunner(bookings *booking.Service, location *time.Location, log *slog.Logger) *Runner {
	return &Runner{
		cron:     cron.New(cron.WithLocation(location)),
		bookings: bookings,
		log:      log,
	}
}

// Start registers the reconciliation sweep under the given cron spec and
// kicks off the scheduler. An invalid spec is returned to the caller so a
// bad RECONCILE_CRON value fails at startup, not silently.
func (r *Runner) Start(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.reconcileSweep); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("jobs: scheduler started", slog.String("reconcile_spec", spec))
	return nil
}

// Stop waits for any in-flight sweep to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("jobs: scheduler stopped")
}

func (r *Runner) reconcileSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orphans, err := r.bookings.OrphanedAppointments(ctx)
	if err != nil {
		r.log.Error("reconcile sweep: query failed", slog.String("error", err.Error()))
		return
	}

	if len(orphans) == 0 {
		r.log.Info("reconcile sweep: clean")
		return
	}

	// Report only. Flipping the slot or cancelling the appointment is an
	// operator call, the sweep just makes sure nobody has to go digging.
	for _, o := range orphans {
		r.log.Warn("reconcile sweep: appointment holds an available slot",
			slog.String("appointment_id", o.AppointmentID),
			slog.String("slot_id", o.SlotID),
			slog.String("doctor_id", o.DoctorID),
			slog.String("date", o.Date),
			slog.String("time", o.Time),
		)
	}
	r.log.Warn("reconcile sweep: inconsistencies found", slog.Int("count", len(orphans)))
}
