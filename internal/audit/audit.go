package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Transports a decision can arrive on.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
	TransportSelfPlay  = "selfplay"
)

// Decision is one engine move as stored in the decision log.
type Decision struct {
	ID         string    `bson:"_id" json:"id"`
	RequestID  string    `bson:"requestId" json:"requestId"`
	Transport  string    `bson:"transport" json:"transport"`
	Difficulty string    `bson:"difficulty" json:"difficulty"`
	Player     int       `bson:"player" json:"player"`
	Stones     int       `bson:"stones" json:"stones"`
	X          int       `bson:"x" json:"x"`
	Y          int       `bson:"y" json:"y"`
	Stage      string    `bson:"stage" json:"stage"`
	Score      int       `bson:"score" json:"score"`
	Depth      int       `bson:"depth" json:"depth"`
	Nodes      int64     `bson:"nodes" json:"nodes"`
	Cached     bool      `bson:"cached" json:"cached"`
	ElapsedMs  int64     `bson:"elapsedMs" json:"elapsedMs"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Recorder persists engine decisions.
type Recorder interface {
	Record(ctx context.Context, d Decision) error
	// Recent returns up to limit decisions, newest first.
	Recent(ctx context.Context, limit int) ([]Decision, error)
	// Purge deletes every stored decision and reports how many were removed.
	Purge(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

var ErrUnknownDriver = errors.New("unknown decision log driver")

// Options select and configure a Recorder.
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

// Open returns the recorder named by opts.Driver. An empty driver or "none"
// gives a recorder that drops everything.
func Open(opts Options) (Recorder, error) {
	switch opts.Driver {
	case "", "none":
		return NopRecorder{}, nil
	case "mongo":
		return NewMongoRecorder(opts.MongoURI, opts.MongoDatabase)
	case "sqlite":
		return NewSQLiteRecorder(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// LogDecision writes d in the background (fire-and-forget). Missing ids and
// timestamps are filled in.
func LogDecision(rec Recorder, d Decision) {
	if rec == nil {
		return
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rec.Record(ctx, d); err != nil {
			log.Warn().Err(err).Str("requestId", d.RequestID).Msg("decision log write failed")
		}
	}()
}

// NopRecorder discards decisions.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Decision) error { return nil }

func (NopRecorder) Recent(context.Context, int) ([]Decision, error) { return nil, nil }

func (NopRecorder) Purge(context.Context) (int64, error) { return 0, nil }

func (NopRecorder) Close(context.Context) error { return nil }
