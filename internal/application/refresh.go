package application

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// RefreshLoopConfig holds timing for the background maintenance loop.
type RefreshLoopConfig struct {
	// Interval is how often the loop ticks; it doubles as the sync staleness
	// threshold.
	Interval time.Duration

	// TokenMaxAge is how old a token may get before a tick refreshes it.
	TokenMaxAge time.Duration

	// Logger for loop activity.
	Logger *log.Logger
}

func DefaultRefreshLoopConfig() *RefreshLoopConfig {
	return &RefreshLoopConfig{
		Interval:    5 * time.Minute,
		TokenMaxAge: 90 * 24 * time.Hour,
		Logger:      log.New(os.Stderr, "[refresh] ", log.LstdFlags),
	}
}

// RefreshLoop periodically re-invokes the session's maintenance tick. A tick
// that kills the session (failed token refresh) does not disarm the timer:
// subsequent ticks no-op while disconnected, so a later Connect picks the
// loop back up without rearming.
type RefreshLoop struct {
	session *Session
	config  *RefreshLoopConfig
	quit    chan struct{}
	wg      sync.WaitGroup
}

func NewRefreshLoop(session *Session, config *RefreshLoopConfig) *RefreshLoop {
	if config == nil {
		config = DefaultRefreshLoopConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[refresh] ", log.LstdFlags)
	}

	return &RefreshLoop{session: session, config: config}
}

// Start arms the recurring timer. The loop stops when Stop is called or ctx
// is cancelled.
func (l *RefreshLoop) Start(ctx context.Context) {
	l.quit = make(chan struct{})
	l.wg.Add(1)
	go l.run(ctx)
}

func (l *RefreshLoop) run(ctx context.Context) {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.quit:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.session.Tick(ctx, l.config.TokenMaxAge, l.config.Interval); err != nil {
				l.config.Logger.Printf("tick: %v", err)
			}
		}
	}
}

// Stop disarms the timer and waits for a tick in progress to finish.
// In-flight sync operations are not forcibly cancelled, only the next tick
// is suppressed.
func (l *RefreshLoop) Stop() {
	if l.quit == nil {
		return
	}

	close(l.quit)
	l.wg.Wait()
}
