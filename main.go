package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/trepgo/opentrep/api"
	"github.com/trepgo/opentrep/config"
	"github.com/trepgo/opentrep/evaluator"
	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/locgraph"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/matcher"
	"github.com/trepgo/opentrep/orchestrator"
	"github.com/trepgo/opentrep/pkg/logger"
	"github.com/trepgo/opentrep/porfile"
	"github.com/trepgo/opentrep/reverselookup"
	"github.com/trepgo/opentrep/scheduler"
	"github.com/trepgo/opentrep/shell"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err) // can't use logger yet
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})

	logger.Info("starting opentrep",
		"version", "1.0.0",
		"environment", cfg.Environment,
		"index_path", cfg.IndexPath,
		"sqldbtype", cfg.SQLConfig.Type,
		"api_enabled", cfg.APIEnabled,
		"mcp_enabled", cfg.MCPEnabled)

	fileIndex, err := index.OpenFileIndex(cfg.IndexPath)
	if err != nil {
		logger.Fatal(err, "failed to open index")
	}

	var readIndex index.ReadIndex = fileIndex
	var redisClient *redis.Client
	if cfg.RedisConfig.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisConfig.Addr})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Warn("Redis unavailable, proceeding without the read-through cache", "error", err)
			redisClient = nil
		} else {
			readIndex = index.NewCachedIndex(fileIndex, redisClient, "opentrep")
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var store reverselookup.Store
	if cfg.SQLConfig.Type != "" && cfg.SQLConfig.Type != "nodb" {
		store, err = reverselookup.Open(context.Background(), cfg.SQLConfig.Type, cfg.SQLConfig.ConnString)
		if err != nil {
			logger.Fatal(err, "failed to open reverse lookup store")
		}
		defer store.Close()
	}

	var graph *locgraph.Graph
	if cfg.Neo4jConfig.Enabled {
		graph, err = locgraph.Open(context.Background(), cfg.Neo4jConfig.URI, cfg.Neo4jConfig.User, cfg.Neo4jConfig.Password)
		if err != nil {
			logger.Fatal(err, "failed to open served-city graph")
		}
		defer graph.Close(context.Background())
	}

	o := orchestrator.New(evaluator.New(
		matcher.New(filter.New(), readIndex),
		evaluator.WithUnmatchedCellPenalty(cfg.MatchingConfig.UnmatchedCellPenalty),
	))

	rebuild := func(ctx context.Context) error {
		if cfg.PORFilePath == "" {
			return nil
		}
		records, err := readPORFile(cfg.PORFilePath, cfg.NonIATAIndexing)
		if err != nil {
			return err
		}
		if err := index.NewBuilder(fileIndex).Rebuild(ctx, records); err != nil {
			return err
		}
		if store != nil && cfg.SQLDBInserting {
			for _, rec := range records {
				if inserter, ok := store.(interface {
					Insert(context.Context, *location.Record) error
				}); ok {
					if err := inserter.Insert(ctx, rec); err != nil {
						logger.Warn("failed to insert record into SQL store", "iata", rec.Key.IATACode, "error", err)
					}
				}
			}
		}
		if graph != nil {
			for _, rec := range records {
				if err := graph.UpsertRecord(ctx, rec); err != nil {
					logger.Warn("failed to upsert record into served-city graph", "iata", rec.Key.IATACode, "error", err)
				}
			}
		}
		return nil
	}

	var sched *scheduler.Scheduler
	if cfg.RebuildCron != "" {
		sched = scheduler.New(rebuild, logger.New(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format}))
		if err := sched.Start(cfg.RebuildCron); err != nil {
			logger.Fatal(err, "failed to start index rebuild scheduler")
		}
		defer sched.Stop()
	}

	var srv *api.Server
	if cfg.APIEnabled {
		srv = api.NewServer(o, store)
		go func() {
			logger.Info("HTTP server starting", "addr", cfg.HTTPBindAddr)
			if err := srv.Run(cfg.HTTPBindAddr); err != nil {
				logger.Error(err, "HTTP server stopped unexpectedly")
			}
		}()
	}

	sh := shell.New(cfg, o, fileIndex, store, logger.New(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sh.Run(os.Stdin, os.Stdout); err != nil {
			logger.Error(err, "shell exited with error")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case <-done:
		logger.Info("shell session ended")
	}

	logger.Info("process exited gracefully")
}

func readPORFile(path string, includeNonIATA bool) ([]*location.Record, error) {
	reader, err := porfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []*location.Record
	for {
		line, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s at line %d: %w", path, reader.LineNumber(), err)
		}
		rec, err := porfile.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("parsing %s at line %d: %w", path, reader.LineNumber(), err)
		}
		if !includeNonIATA && rec.Key.IATACode == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
