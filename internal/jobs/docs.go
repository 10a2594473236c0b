// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// PaymentReconciliationJob settles orders whose payment succeeded at the
// processor but whose webhook never arrived. Its schedule is a six-field
// cron expression (seconds first); the default runs every five minutes.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, jobs.Config{Schedule: "0 */5 * * * *"}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Runs never overlap: a tick that fires while the previous run is still
// going is skipped.
package jobs
