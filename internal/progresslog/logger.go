// Copyright (c) 2015-2024 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"sync"
	"time"

	"github.com/decred/slog"
)

// logInterval is the minimum amount of time between unforced progress
// messages.
const logInterval = time.Second * 10

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Logger provides periodic logging of progress towards some action such as
// adding items to a set.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// These fields accumulate information about items between log statements.
	receivedItems uint64
	receivedBytes uint64

	// totalItems is the number of items seen since the logger was created.
	totalItems uint64
}

// New returns a new item progress logger.
func New(progressAction string, logger slog.Logger) *Logger {
	return &Logger{
		lastLogTime:     time.Now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
	}
}

// LogProgress accumulates details for the provided item and periodically
// (every 10 seconds) logs an information message to show progress to the user
// along with duration and totals included.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//
//	{progressAction} {numProcessed} {items|item} in the last {timePeriod}
//	({numBytes} {bytes|byte}, {totalItems} total)
func (l *Logger) LogProgress(item []byte, forceLog bool) {
	l.Lock()
	defer l.Unlock()

	l.receivedItems++
	l.receivedBytes += uint64(len(item))
	l.totalItems++
	l.logLocked(forceLog)
}

// Flush logs any outstanding totals regardless of the time the last message
// was shown.  Nothing is logged when no items were received since then.
func (l *Logger) Flush() {
	l.Lock()
	defer l.Unlock()

	if l.receivedItems == 0 {
		return
	}
	l.logLocked(true)
}

// logLocked shows the progress message when forced or once the log interval
// has elapsed and resets the accumulated totals.
//
// This function MUST be called with the logger lock held.
func (l *Logger) logLocked(forceLog bool) {
	now := time.Now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < logInterval {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Truncate(10 * time.Millisecond)

	l.subsystemLogger.Infof("%s %d %s in the last %s (%d %s, %d total)",
		l.progressAction, l.receivedItems,
		pickNoun(l.receivedItems, "item", "items"), tDuration,
		l.receivedBytes, pickNoun(l.receivedBytes, "byte", "bytes"),
		l.totalItems)

	l.receivedItems = 0
	l.receivedBytes = 0
	l.lastLogTime = now
}

// Total returns the number of items seen since the logger was created.
func (l *Logger) Total() uint64 {
	l.Lock()
	defer l.Unlock()
	return l.totalItems
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
