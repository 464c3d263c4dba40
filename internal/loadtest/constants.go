package loadtest

import "time"

// Submission outcome labels.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeThrottled = "throttled"
	outcomeFailed    = "failed"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	maxSubmitAttempts       = 20
	throttleBackoff         = 25 * time.Millisecond
	settlePollInterval      = 100 * time.Millisecond
	progressInterval        = time.Second
)

// Generation constants. Each percentage applies per athlete and event.
const (
	defaultDuplicateRatio = 0.05
	missingPercent        = 2
	dnfPercent            = 3
	dnsPercent            = 2
	withdrawnPercent      = 1
	capPercent            = 15
	timeCapSeconds        = 1200
)

// pointsTolerance absorbs float summation noise when comparing totals.
const pointsTolerance = 1e-6
