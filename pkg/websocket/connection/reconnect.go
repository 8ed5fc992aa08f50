package connection

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/backtesting-org/coinbase-streaming/pkg/logging"
)

var ErrMaxReconnectAttempts = errors.New("max reconnection attempts reached")

type exponentialBackoffStrategy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	maxAttempts  int
	Multiplier   float64
	Jitter       bool
	randSource   *rand.Rand
	mutex        sync.Mutex
}

func NewExponentialBackoffStrategy(initialDelay, maxDelay time.Duration, maxAttempts int) ReconnectionStrategy {
	return &exponentialBackoffStrategy{
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		maxAttempts:  maxAttempts,
		Multiplier:   2.0,
		Jitter:       true,
		randSource:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (ebs *exponentialBackoffStrategy) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return ebs.InitialDelay
	}

	delay := float64(ebs.InitialDelay) * math.Pow(ebs.Multiplier, float64(attempt-1))

	if delay > float64(ebs.MaxDelay) {
		delay = float64(ebs.MaxDelay)
	}

	if ebs.Jitter {
		ebs.mutex.Lock()
		jitterFactor := 2*ebs.randSource.Float64() - 1
		ebs.mutex.Unlock()

		delay += delay * 0.1 * jitterFactor

		if delay < 0 {
			delay = float64(ebs.InitialDelay)
		}
	}

	return time.Duration(delay)
}

func (ebs *exponentialBackoffStrategy) MaxAttempts() int {
	return ebs.maxAttempts
}

type reconnectManager struct {
	connectionManager ConnectionManager
	strategy          ReconnectionStrategy
	logger            logging.ApplicationLogger

	reconnectMutex sync.Mutex
	cancel         context.CancelFunc
	done           chan struct{}

	onReconnectStart   func(attempt int)
	onReconnectFail    func(attempt int, err error)
	onReconnectSuccess func(attempt int)
}

func NewReconnectManager(
	connectionManager ConnectionManager,
	strategy ReconnectionStrategy,
	logger logging.ApplicationLogger,
) ReconnectManager {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &reconnectManager{
		connectionManager: connectionManager,
		strategy:          strategy,
		logger:            logger,
	}
}

func (rm *reconnectManager) SetCallbacks(
	onStart func(int),
	onFail func(int, error),
	onSuccess func(int),
) {
	rm.reconnectMutex.Lock()
	defer rm.reconnectMutex.Unlock()
	rm.onReconnectStart = onStart
	rm.onReconnectFail = onFail
	rm.onReconnectSuccess = onSuccess
}

// StopReconnection cancels a running loop and waits for it to exit
func (rm *reconnectManager) StopReconnection() {
	rm.reconnectMutex.Lock()
	cancel, done := rm.cancel, rm.done
	rm.reconnectMutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (rm *reconnectManager) StartReconnection(ctx context.Context) error {
	rm.reconnectMutex.Lock()
	defer rm.reconnectMutex.Unlock()

	if rm.cancel != nil {
		rm.logger.Debug("Reconnection already in progress")
		return nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	rm.cancel = cancel
	rm.done = make(chan struct{})

	go rm.reconnectLoop(loopCtx, ctx, rm.done)
	return nil
}

func (rm *reconnectManager) IsReconnecting() bool {
	rm.reconnectMutex.Lock()
	defer rm.reconnectMutex.Unlock()
	return rm.cancel != nil
}

// reconnectLoop waits on ctx; connections are opened with connCtx so that ending
// the loop never tears down the connection it just established.
func (rm *reconnectManager) reconnectLoop(ctx, connCtx context.Context, done chan struct{}) {
	defer func() {
		rm.reconnectMutex.Lock()
		if rm.cancel != nil {
			rm.cancel()
		}
		rm.cancel = nil
		rm.reconnectMutex.Unlock()
		close(done)
	}()

	rm.reconnectMutex.Lock()
	onStart, onFail, onSuccess := rm.onReconnectStart, rm.onReconnectFail, rm.onReconnectSuccess
	rm.reconnectMutex.Unlock()

	for attempt := 1; ; attempt++ {
		if attempt > rm.strategy.MaxAttempts() {
			rm.logger.Error("Max reconnection attempts reached: %d", attempt-1)
			if onFail != nil {
				onFail(attempt-1, ErrMaxReconnectAttempts)
			}
			return
		}

		delay := rm.strategy.NextDelay(attempt)
		rm.logger.Debug("Attempting reconnection %d after %v delay", attempt, delay)

		if onStart != nil {
			onStart(attempt)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			rm.logger.Debug("Reconnection cancelled by context")
			return
		case <-timer.C:
		}

		err := rm.connectionManager.Connect(connCtx)
		if err == nil {
			rm.logger.Info("Reconnection successful after %d attempts", attempt)
			if onSuccess != nil {
				onSuccess(attempt)
			}
			return
		}

		if ctx.Err() != nil || errors.Is(err, ErrStopped) {
			return
		}

		rm.logger.Debug("Reconnection attempt %d failed: %v", attempt, err)
		if onFail != nil {
			onFail(attempt, err)
		}
	}
}
