// Command chinspect is a tiny diagnostic CLI: it dials a ClickHouse
// server, pings it, runs one query, and logs the number of blocks and
// rows it returned. Grounded on ClusterCockpit-cc-backend's cmd/cc-backend flag
// layout and its optional gops agent hook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/gops/agent"
	"go.uber.org/zap"

	ch "github.com/MrDoe/ClickHouseClient"
	"github.com/MrDoe/ClickHouseClient/proto"
)

func main() {
	var (
		addr     = flag.String("addr", "localhost:9000", "ClickHouse native TCP address")
		database = flag.String("database", "default", "database to authenticate against")
		user     = flag.String("user", "default", "username")
		password = flag.String("password", "", "password")
		query    = flag.String("query", "SELECT 1", "query to run after connecting")
		timeout  = flag.Duration("timeout", 10*time.Second, "dial timeout")
		compress = flag.Bool("compress", false, "enable LZ4 block compression")
		flagGops = flag.Bool("gops", false, "listen via github.com/google/gops/agent (for debugging)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chinspect: build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	// See https://github.com/google/gops (runtime overhead is almost zero).
	if *flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logger.Fatal("gops/agent.Listen failed", zap.Error(err))
		}
	}

	compression := proto.CompressionDisabled
	if *compress {
		compression = proto.CompressionEnabled
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	sess, err := ch.Dial(ctx, *addr, ch.Options{
		Database:    *database,
		User:        *user,
		Password:    *password,
		Compression: compression,
		DialTimeout: *timeout,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("dial failed", zap.String("addr", *addr), zap.Error(err))
	}
	defer sess.Close() //nolint:errcheck

	logger.Info("connected", zap.Stringer("server", sess))

	if err := sess.Ping(ctx); err != nil {
		logger.Fatal("ping failed", zap.Error(err))
	}
	logger.Info("ping ok")

	var rows, blocks int
	err = sess.Query(ctx, ch.Query{
		Body: *query,
		OnResult: func(ctx context.Context, b proto.Block) error {
			blocks++
			rows += b.Rows
			return nil
		},
	})
	if err != nil {
		logger.Fatal("query failed", zap.String("query", *query), zap.Error(err))
	}
	logger.Info("query ok", zap.Int("blocks", blocks), zap.Int("rows", rows))
}
