package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	JobIDSyncIncremental = "ordersync.sync.incremental"
	JobIDSyncAll         = "ordersync.sync.all"
)

// ScheduleSync enqueues an incremental order scan for one account.
func (s *Service) ScheduleSync(ctx context.Context, accountID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account_id": accountID,
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "schedule_sync", err, fields)
	}()

	if s.jobEnqueuer == nil {
		err = s.mapError(fmt.Errorf("core: job enqueuer is not configured"))
		return err
	}
	account, ok := s.directory.Get(accountID)
	if !ok {
		err = s.mapError(fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		return err
	}
	if enqueueErr := s.jobEnqueuer.Enqueue(ctx, &JobExecutionMessage{
		JobID: JobIDSyncIncremental,
		Parameters: map[string]any{
			"account_id": account.ID,
		},
		IdempotencyKey: strings.Join([]string{JobIDSyncIncremental, account.ID, uuid.NewString()}, ":"),
	}); enqueueErr != nil {
		err = s.mapError(enqueueErr)
		return err
	}
	return nil
}

// ScheduleSyncAll enqueues one fan-out scan over every linked account.
func (s *Service) ScheduleSyncAll(ctx context.Context) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observeOperation(ctx, startedAt, "schedule_sync_all", err, fields)
	}()

	if s.jobEnqueuer == nil {
		err = s.mapError(fmt.Errorf("core: job enqueuer is not configured"))
		return err
	}
	if enqueueErr := s.jobEnqueuer.Enqueue(ctx, &JobExecutionMessage{
		JobID:          JobIDSyncAll,
		Parameters:     map[string]any{},
		IdempotencyKey: strings.Join([]string{JobIDSyncAll, uuid.NewString()}, ":"),
	}); enqueueErr != nil {
		err = s.mapError(enqueueErr)
		return err
	}
	return nil
}

// RunSyncJob executes a dequeued sync message. Workers call this from
// their handler; unknown job ids are rejected so a mixed queue cannot
// silently drop work.
func (s *Service) RunSyncJob(ctx context.Context, msg *JobExecutionMessage) error {
	if msg == nil {
		return s.mapError(fmt.Errorf("core: job execution message is required"))
	}
	switch strings.TrimSpace(msg.JobID) {
	case JobIDSyncIncremental:
		accountID := strings.TrimSpace(fmt.Sprint(msg.Parameters["account_id"]))
		if accountID == "" || accountID == "<nil>" {
			return s.mapError(fmt.Errorf("core: sync job requires account_id parameter"))
		}
		_, err := s.FetchOrders(ctx, accountID)
		return err
	case JobIDSyncAll:
		outcomes, err := s.FetchAllOrders(ctx)
		if err != nil {
			return err
		}
		var failed int
		for _, outcome := range outcomes {
			if outcome.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			return s.mapError(fmt.Errorf("core: %d of %d account scans failed", failed, len(outcomes)))
		}
		return nil
	default:
		return s.mapError(fmt.Errorf("core: unknown job id: %s", msg.JobID))
	}
}
