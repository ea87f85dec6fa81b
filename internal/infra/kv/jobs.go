package kv

import (
	"context"
	"encoding/json"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	jobPrefix = "raffle:job:"
	jobTTL    = 24 * time.Hour
)

type JobState string

const (
	JobPending   JobState = "PENDING"
	JobSucceeded JobState = "SUCCEEDED"
	JobFailed    JobState = "FAILED"
)

var ErrJobNotFound = errs.New("job not found")

// JobStatus is the polling record for an asynchronous raffle close.
type JobStatus struct {
	JobID    uuid.UUID  `json:"jobId"`
	Period   string     `json:"period"`
	State    JobState   `json:"state"`
	RaffleID *uuid.UUID `json:"raffleId,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type JobStore struct {
	rdb *redis.Client
}

func NewJobStore(rdb *redis.Client) *JobStore {
	return &JobStore{rdb: rdb}
}

func (s *JobStore) Put(ctx context.Context, status JobStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return errs.Wrap(err, "failed to encode job status")
	}
	if err := s.rdb.Set(ctx, jobPrefix+status.JobID.String(), raw, jobTTL).Err(); err != nil {
		return errs.Wrap(err, "failed to save job status")
	}
	return nil
}

func (s *JobStore) Get(ctx context.Context, jobID uuid.UUID) (JobStatus, error) {
	raw, err := s.rdb.Get(ctx, jobPrefix+jobID.String()).Bytes()
	if err == redis.Nil {
		return JobStatus{}, ErrJobNotFound
	}
	if err != nil {
		return JobStatus{}, errs.Wrap(err, "failed to load job status")
	}
	var status JobStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return JobStatus{}, errs.Wrap(err, "failed to decode job status")
	}
	return status, nil
}
