package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/sveniik/battletrack/internal/model"
)

// DefaultBucketNames are the InfluxDB buckets the tracker writes to.
var DefaultBucketNames = []string{
	"battle_data",
	"tracker_performance",
}

// Manager handles InfluxDB connections and writes. All write methods are
// no-ops when the connection is not valid, so telemetry can never disrupt
// tracking.
type Manager struct {
	Client      influxdb2.Client
	Writers     map[string]influxdb2_api.WriteAPI
	IsValid     bool
	BucketNames []string
	Logger      zerolog.Logger
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		IsValid:     false,
		BucketNames: DefaultBucketNames,
		Logger:      log,
	}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, telemetry disabled")
		return nil
	}

	m.IsValid = true
	m.createWriters()
	m.Logger.Info().Msg("InfluxDB client initialized")

	return nil
}

func (m *Manager) createWriters() {
	org := viper.GetString("influx.org")
	for _, bucket := range m.BucketNames {
		m.Writers[bucket] = m.Client.WriteAPI(org, bucket)
	}
}

// WriteRecord sends one emitted damage/heal record as a telemetry point.
func (m *Manager) WriteRecord(rec *model.LogRecord, spectating bool) {
	if !m.IsValid {
		return
	}
	p := influxdb2.NewPointWithMeasurement("battle_records").
		AddTag("kind", string(rec.Kind)).
		AddTag("combatant", rec.DisplayName).
		AddField("delta", rec.Delta).
		AddField("spectating", spectating).
		SetTime(rec.Time)
	m.Writers["battle_data"].WritePoint(p)
}

// WriteBattleSummary sends per-battle processing counters at battle end.
func (m *Manager) WriteBattleSummary(battleID string, eventsProcessed int) {
	if !m.IsValid {
		return
	}
	p := influxdb2.NewPointWithMeasurement("battles").
		AddTag("battleId", battleID).
		AddField("eventsProcessed", eventsProcessed).
		SetTime(time.Now())
	m.Writers["tracker_performance"].WritePoint(p)
}

// Close flushes pending writes and shuts down the client.
func (m *Manager) Close() {
	if !m.IsValid {
		return
	}
	for _, w := range m.Writers {
		w.Flush()
	}
	m.Client.Close()
}
