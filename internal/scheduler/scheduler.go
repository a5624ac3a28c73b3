package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	ErrEmptyJobName    = errors.New("scheduler: job name is required")
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Service фоновые периодические задачи сервиса
type Service struct {
	scheduler gocron.Scheduler
	logger    Logger
	stopOnce  sync.Once
	stopErr   error
}

// New создает планировщик. Паника в задаче логируется и не роняет процесс.
func New(logger Logger) (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("Scheduler: job %s (%s) panicked: %v", jobName, jobID, recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Service{scheduler: sched, logger: logger}, nil
}

// AddIntervalJob регистрирует задачу с фиксированным интервалом.
// Следующий запуск не стартует, пока не закончился предыдущий.
func (s *Service) AddIntervalJob(name string, every time.Duration, task func()) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if every <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, every)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.Error("Scheduler: failed to register job %s: %v", name, err)
		return nil, fmt.Errorf("register job %s: %w", name, err)
	}

	s.logger.Info("Scheduler: job %s registered, every %s", name, every)
	return job, nil
}

func (s *Service) Start() {
	s.logger.Info("Scheduler: starting")
	s.scheduler.Start()
}

// Stop останавливает планировщик и ждет текущие задачи. Повторный вызов безопасен.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("Scheduler: stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}
