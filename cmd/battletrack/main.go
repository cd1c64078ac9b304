package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sveniik/battletrack/internal/cache"
	"github.com/sveniik/battletrack/internal/config"
	"github.com/sveniik/battletrack/internal/dispatcher"
	"github.com/sveniik/battletrack/internal/influx"
	"github.com/sveniik/battletrack/internal/logging"
	"github.com/sveniik/battletrack/internal/model"
	"github.com/sveniik/battletrack/internal/parser"
	"github.com/sveniik/battletrack/internal/reconciler"
	"github.com/sveniik/battletrack/internal/storage"
	"github.com/sveniik/battletrack/internal/worker"
)

// eventLine is one captured host bridge call in a replay file.
type eventLine struct {
	Cmd  string   `json:"cmd"`
	Args []string `json:"args"`
}

func main() {
	configDir := flag.String("config", ".", "directory containing battletrack.cfg.json")
	replayPath := flag.String("replay", "", "JSONL event capture to replay (default stdin)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
	}

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	_ = os.MkdirAll(logsDir, 0755)

	var logFile *os.File
	logFile, err := os.Create(logging.LogFilePath(logsDir, "battletrack", sessionStart))
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
	}

	graylogAddr := ""
	if config.GetBool("graylog.enabled") {
		graylogAddr = config.GetString("graylog.address")
	}

	logManager := logging.NewSlogManager()
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
		logManager.Setup(logFile, config.GetString("logLevel"), graylogAddr)
	} else {
		logManager.Setup(nil, config.GetString("logLevel"), graylogAddr)
	}
	logger := logManager.Logger()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	storageCfg, err := config.Storage()
	if err != nil {
		logger.Error("Invalid storage config", "error", err)
		os.Exit(1)
	}
	backend, err := storage.NewBackend(storageCfg, zlog)
	if err != nil {
		logger.Error("Failed to create storage backend", "error", err)
		os.Exit(1)
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			logger.Error("Failed to initialize storage backend", "error", err)
			os.Exit(1)
		}
		defer func() { _ = backend.Close() }()
	}

	var influxMgr *influx.Manager
	if config.GetBool("influx.enabled") {
		influxMgr = influx.NewManager(zlog)
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable", "error", err)
		}
		defer influxMgr.Close()
	}

	tracker := reconciler.NewService(reconciler.Dependencies{
		Baselines: cache.NewBaselineStore(),
		Roster:    cache.NewRoster(),
		Logger:    logger,
		Backend:   backend,
	})

	wm := worker.NewManager(worker.Dependencies{
		Parser:     parser.New(logger),
		Tracker:    tracker,
		LogManager: logManager,
		Influx:     influxMgr,
	})

	d, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		logger.Error("Failed to create dispatcher", "error", err)
		os.Exit(1)
	}
	// Replay needs strict event ordering, so handlers run unbuffered.
	wm.RegisterHandlersSync(d)

	in := os.Stdin
	if *replayPath != "" {
		f, err := os.Open(*replayPath)
		if err != nil {
			logger.Error("Failed to open replay file", "path", *replayPath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	if err := replay(in, d, tracker); err != nil {
		logger.Error("Replay failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Replay complete", "eventsProcessed", wm.EventsProcessed())
}

// replay feeds captured events through the dispatcher, printing emitted
// records as they appear.
func replay(in *os.File, d *dispatcher.Dispatcher, tracker *reconciler.Service) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev eventLine
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("bad event line: %w", err)
		}

		if _, err := d.Dispatch(dispatcher.Event{
			Command:   ev.Cmd,
			Args:      ev.Args,
			Timestamp: time.Now(),
		}); err != nil {
			return err
		}

		printRecords(tracker.Records())
	}
	printRecords(tracker.Records())

	return scanner.Err()
}

func printRecords(records []model.LogRecord) {
	for _, rec := range records {
		fmt.Printf("%s %s\n", rec.Marker(), rec.Line())
	}
}
