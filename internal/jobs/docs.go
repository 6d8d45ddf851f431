// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are built on github.com/robfig/cron/v3 and accept the standard five-field
// cron syntax as well as descriptors such as "@every 1m" or "@hourly".
//
// # Available Jobs
//
// StatusReportJob periodically counts orders per status, logs the snapshot and
// publishes it as the observable gauge "orders.by_status".
//
// # Usage
//
//	job, err := jobs.NewStatusReportJob(service, "@every 1m", jobs.WithLogger(logger), jobs.WithMeter(meter))
//	if err != nil {
//		return err
//	}
//	if err := job.Start(); err != nil {
//		return err
//	}
//	defer job.Stop()
package jobs
