// Package jobs wires the periodic work the backend runs on its own:
// the monthly purge of old sales, the dashboard push, and the
// low-stock sweep.
package jobs

import (
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"comanda/internal/notify"
	"comanda/internal/services"
)

type Runner struct {
	Sales     *services.SaleService
	Dashboard *services.DashboardService
	Notifier  *notify.Hub

	cron *cron.Cron
}

func NewRunner(sales *services.SaleService, dashboard *services.DashboardService, hub *notify.Hub) *Runner {
	return &Runner{Sales: sales, Dashboard: dashboard, Notifier: hub, cron: cron.New()}
}

// Start registers and launches the schedules. Errors from AddFunc are
// programming errors (bad cron expression) and abort startup.
func (r *Runner) Start() error {
	// Purge sales older than a month, on the 1st at 03:00.
	if _, err := r.cron.AddFunc("0 3 1 * *", r.purgeOldSales); err != nil {
		return err
	}
	// Push dashboard stats every minute.
	if _, err := r.cron.AddFunc("* * * * *", r.pushDashboard); err != nil {
		return err
	}
	// Low-stock sweep every 5 minutes.
	if _, err := r.cron.AddFunc("*/5 * * * *", r.sweepLowStock); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Runner) Stop() { r.cron.Stop() }

func (r *Runner) purgeOldSales() {
	cutoff := time.Now().AddDate(0, -1, 0)
	n, err := r.Sales.PurgeBefore(cutoff)
	if err != nil {
		log.Printf("[jobs] purge failed: %v", err)
		return
	}
	log.Printf("[jobs] purged %d sales older than %s", n, cutoff.UTC().Format(time.RFC3339))
}

func (r *Runner) pushDashboard() {
	stats, err := r.Dashboard.Statistics()
	if err != nil {
		log.Printf("[jobs] dashboard stats failed: %v", err)
		return
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return
	}
	r.Notifier.Publish(notify.InfoEvent("dashboard", string(b)))
}

func (r *Runner) sweepLowStock() {
	if err := r.Dashboard.SweepLowStock(); err != nil {
		log.Printf("[jobs] low-stock sweep failed: %v", err)
	}
}
