package api

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"backstage-api/domain"
)

type publishJob struct {
	tenant string
	events []domain.ChangeEvent
}

var (
	once           sync.Once
	jobs           chan publishJob
	workerCount    int
	jobBuf         int
	publishTimeout time.Duration
	handoffTimeout time.Duration
	bg             = context.Background()
	globalSink     EventSink
	globalRedis    *redis.Client
	globalChannel  string
	globalLog      *log.Logger
	workerWG       sync.WaitGroup
)

// shutdownEventPublisher stops worker goroutines and clears shared state. It
// is intended for tests.
func shutdownEventPublisher() {
	if jobs != nil {
		close(jobs)
		jobs = nil
	}

	workerWG.Wait()

	globalSink = nil
	globalRedis = nil
	globalChannel = ""
	globalLog = nil
	workerCount = 0
	jobBuf = 0
	publishTimeout = 0
	handoffTimeout = 0
	once = sync.Once{}
	workerWG = sync.WaitGroup{}
}

func initEventPublisher(sink EventSink, rc *redis.Client, channel string, logger *log.Logger) {
	once.Do(func() {
		globalSink = sink
		globalRedis = rc
		globalChannel = channel
		if logger == nil {
			panic("Logger is not initialized")
		}
		globalLog = logger

		workerCount = envInt("PUBLISH_WORKERS", 8)
		jobBuf = envInt("PUBLISH_BUFFER", 1024)
		publishTimeout = envDur("PUBLISH_TIMEOUT", 30*time.Second)
		handoffTimeout = envDur("PUBLISH_HANDOFF_TIMEOUT", 15*time.Millisecond)

		jobs = make(chan publishJob, jobBuf)
		for i := 0; i < workerCount; i++ {
			workerWG.Add(1)
			go publishWorker(i, jobs)
		}
		globalLog.Infof("event publisher started, workers: %d, buffer: %d, timeout: %v, handoff: %v", workerCount, jobBuf, publishTimeout, handoffTimeout)
	})
}

func publishWorker(id int, jobCh <-chan publishJob) {
	defer workerWG.Done()
	for j := range jobCh {
		deliverJob(id, j)
	}
}

func deliverJob(id int, j publishJob) {
	ctx, cancel := context.WithTimeout(bg, publishTimeout)
	defer cancel()

	if err := globalSink.EnqueueEvents(ctx, j.tenant, j.events); err != nil {
		globalLog.Errorf("event enqueue failed, err: %v, tenant: %s, count: %d, worker: %d", err, j.tenant, len(j.events), id)
		return
	}
	notifyTenant(ctx, j.tenant)
}

// notifyTenant tells connected clients that the tenant's board changed so
// they re-fetch the authoritative state.
func notifyTenant(ctx context.Context, tenant string) {
	if globalRedis == nil || globalChannel == "" {
		return
	}
	payload, err := json.Marshal(struct {
		TenantID string `json:"tenantId"`
	}{TenantID: tenant})
	if err != nil {
		return
	}
	if err := globalRedis.Publish(ctx, globalChannel, payload).Err(); err != nil {
		globalLog.Errorf("unable to publish change notification for tenant %s: %v", tenant, err)
	}
}

// queueChangeEvents hands change events to the publisher pool. When the
// buffer is saturated the delivery happens inline; a mutation that already
// committed is never failed over an event delivery problem.
func queueChangeEvents(tenant string, events ...domain.ChangeEvent) {
	if len(events) == 0 {
		return
	}
	job := publishJob{tenant: tenant, events: events}
	if tryPublishJob(job) {
		return
	}
	if globalLog != nil {
		globalLog.Warn("publish buffer saturated; delivering inline")
	}
	if globalSink != nil {
		deliverJob(-1, job)
	}
}

func tryPublishJob(job publishJob) bool {
	if jobs == nil {
		return false
	}

	if ok, closed := trySendNonBlocking(jobs, job); closed {
		return false
	} else if ok {
		return true
	}

	if handoffTimeout <= 0 {
		return false
	}

	timer := time.NewTimer(handoffTimeout)
	defer timer.Stop()

	ok, closed := sendWithTimer(jobs, job, timer.C)
	if closed {
		return false
	}
	return ok
}

func trySendNonBlocking(ch chan publishJob, job publishJob) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- job:
		return true, false
	default:
		return false, false
	}
}

func sendWithTimer(ch chan publishJob, job publishJob, timer <-chan time.Time) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- job:
		return true, false
	case <-timer:
		return false, false
	}
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDur(name string, def time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// newChangeEvent stamps a change event with a fresh id and monotonic
// timestamp.
func newChangeEvent(entityType, entityID, kind string) domain.ChangeEvent {
	return domain.ChangeEvent{
		ID:         newID(),
		EntityID:   entityID,
		EntityType: entityType,
		Type:       kind,
		Timestamp:  nextTimestamp(),
	}
}
