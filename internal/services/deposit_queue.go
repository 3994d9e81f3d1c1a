package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// DepositJob queue'da işlenecek portföy işi
type DepositJob struct {
	DepositID  int64
	Name       string
	Run        func() error
	ResultChan chan error
}

// DepositQueue portföy bazlı iş kuyruğu.
// Her iş depositID % workers numaralı worker'a gider; aynı portföyün işleri sırayla çalışır.
type DepositQueue struct {
	lanes      []chan DepositJob
	workers    int
	bufferSize int
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewDepositQueue yeni queue oluşturur
func NewDepositQueue(workers, bufferSize int) *DepositQueue {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}

	lanes := make([]chan DepositJob, workers)
	for i := range lanes {
		lanes[i] = make(chan DepositJob, bufferSize)
	}

	return &DepositQueue{
		lanes:      lanes,
		workers:    workers,
		bufferSize: bufferSize,
	}
}

// Start worker'ları başlatır
func (q *DepositQueue) Start() {
	log.Info().
		Int("workers", q.workers).
		Int("buffer_size", q.bufferSize).
		Msg("🔄 Deposit queue başlatıldı")

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop yeni işleri reddeder, kuyruktaki işler bitince döner
func (q *DepositQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()

	q.wg.Wait()
	log.Info().Msg("⏹️ Deposit queue durduruldu")
}

func (q *DepositQueue) worker(id int) {
	defer q.wg.Done()

	log.Debug().Int("worker_id", id).Msg("🚀 Worker başlatıldı")

	for job := range q.lanes[id] {
		log.Debug().
			Int("worker_id", id).
			Int64("deposit_id", job.DepositID).
			Str("job", job.Name).
			Msg("💼 Portföy işi işleniyor")

		err := runJob(job)
		job.ResultChan <- err
		close(job.ResultChan)

		if err != nil {
			log.Warn().Err(err).Int("worker_id", id).Int64("deposit_id", job.DepositID).Str("job", job.Name).Msg("❌ Portföy işi başarısız")
		}
	}

	log.Debug().Int("worker_id", id).Msg("🛑 Worker durduruldu")
}

// runJob panic'i hataya çevirir, worker ayakta kalır
func runJob(job DepositJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("recover", r).
				Int64("deposit_id", job.DepositID).
				Str("job", job.Name).
				Msg("🚨 Portföy işi panikledi ama toparlandı")
			err = fmt.Errorf("portföy işi panik ile sonlandı: %v", r)
		}
	}()
	return job.Run()
}

// AddJob işi portföyün worker'ına ekler. Kuyruk doluysa veya durdurulduysa ConflictError döner.
func (q *DepositQueue) AddJob(depositID int64, name string, run func() error) <-chan error {
	resultChan := make(chan error, 1)

	job := DepositJob{
		DepositID:  depositID,
		Name:       name,
		Run:        run,
		ResultChan: resultChan,
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped {
		resultChan <- apperrors.NewConflictError("portföy kuyruğu kapatıldı, daha sonra tekrar deneyin")
		close(resultChan)
		return resultChan
	}

	select {
	case q.lanes[q.laneFor(depositID)] <- job:
		log.Debug().Int64("deposit_id", depositID).Str("job", name).Msg("📤 Job queue'ya eklendi")
	default:
		resultChan <- apperrors.NewConflictError("portföy kuyruğu dolu, daha sonra tekrar deneyin")
		close(resultChan)
	}

	return resultChan
}

// Do işi kuyruğa ekler ve sonucunu bekler. ctx iptal edilirse beklemeyi bırakır;
// iş kuyruktaysa yine de çalışır.
func (q *DepositQueue) Do(ctx context.Context, depositID int64, name string, run func() error) error {
	select {
	case err := <-q.AddJob(depositID, name, run):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *DepositQueue) laneFor(depositID int64) int {
	lane := depositID % int64(q.workers)
	if lane < 0 {
		lane = -lane
	}
	return int(lane)
}
