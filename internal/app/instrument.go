package service

import (
	"context"
	"time"

	repository "github.com/okian/courtside/internal/adapters/repository"
	model "github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/pkg/metrics"
)

// instrumentedStore wraps a Store and records append latency and error
// counts. The storage adapters stay free of metrics concerns.
type instrumentedStore struct {
	repository.Store
}

func instrument(s repository.Store) repository.Store {
	return &instrumentedStore{Store: s}
}

func (s *instrumentedStore) AppendEvent(ctx context.Context, e model.Event) error {
	start := time.Now()
	err := s.Store.AppendEvent(ctx, e)
	metrics.RecordStoreAppendLatency(time.Since(start).Seconds() * 1000)
	if err != nil {
		metrics.RecordStoreError()
	}
	return err
}

func (s *instrumentedStore) CreateMatch(ctx context.Context, rec repository.MatchRecord) error {
	err := s.Store.CreateMatch(ctx, rec)
	if err != nil {
		metrics.RecordStoreError()
	}
	return err
}
