// Package jobs runs HabitQuest's scheduled background work.
//
// Jobs run on robfig/cron schedules in the scoring timezone:
//
//   - Rollover: after midnight, re-derive each loaded player's streak and
//     flush the snapshot cache
//   - ChallengeProgress: write weekly challenge progress to the hosted store
//
// Jobs log errors and count them in habitquest_jobs_runs_total; a failed
// run never stops the scheduler.
//
//	s := jobs.NewScheduler(jobs.SchedulerConfig{Location: loc, Logger: logger})
//	_ = s.Add(cfg.Jobs.RolloverSchedule, jobs.NewRollover(registry, logger))
//	s.Start()
//	defer s.Stop()
package jobs
