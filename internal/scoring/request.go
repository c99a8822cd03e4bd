package scoring

import (
	"time"

	"kaoyan-advisor/internal/common/logger"
	"kaoyan-advisor/internal/models"
	"kaoyan-advisor/internal/refdata"
)

// Recorder receives scoring events for metrics.
type Recorder interface {
	DefaultSubstituted(dim models.Dimension, metric string)
}

type nopRecorder struct{}

func (nopRecorder) DefaultSubstituted(models.Dimension, string) {}

// Request is the per-request context shared by all calculators. It is
// read-only once scoring starts.
type Request struct {
	User       models.UserProfile
	Target     models.TargetPreferences
	Store      refdata.Store
	Population *Population
	Now        time.Time
	Logger     logger.Logger
	Recorder   Recorder
}

func (r *Request) logger() logger.Logger {
	if r.Logger == nil {
		return logger.NewNoOpLogger()
	}
	return r.Logger
}

func (r *Request) recorder() Recorder {
	if r.Recorder == nil {
		return nopRecorder{}
	}
	return r.Recorder
}

func (r *Request) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

func (r *Request) population() *Population {
	if r.Population == nil {
		return &Population{}
	}
	return r.Population
}
