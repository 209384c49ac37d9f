package detect

import (
	"context"
	"math/rand/v2"
	"time"
)

// Explanation is the fixed analysis-basis string attached to every mock
// verdict. A real detector replaces it with actual findings.
const Explanation = "Analysis based on pixel-level inconsistencies, metadata patterns, and deep learning model output."

const (
	minConfidence = 60
	maxConfidence = 100
)

// MockDetector simulates a detector: it waits its configured latency, then
// draws a uniform verdict. The uploaded bytes are never read.
type MockDetector struct {
	Latency time.Duration
}

func NewMockDetector(latency time.Duration) *MockDetector {
	return &MockDetector{Latency: latency}
}

func (d *MockDetector) Detect(ctx context.Context, req Request) (Result, error) {
	if req.Empty() {
		return Result{}, ErrEmptyRequest
	}

	if d.Latency > 0 {
		t := time.NewTimer(d.Latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}

	return Result{
		IsReal:      rand.IntN(2) == 0,
		Confidence:  minConfidence + rand.IntN(maxConfidence-minConfidence+1),
		Explanation: Explanation,
	}, nil
}
