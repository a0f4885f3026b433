package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bluewave-labs/verifywise-sub000/pkg/common"
	"github.com/bluewave-labs/verifywise-sub000/pkg/messaging"
	"github.com/bluewave-labs/verifywise-sub000/pkg/prefs"
	"github.com/bluewave-labs/verifywise-sub000/pkg/resource"
	"github.com/bluewave-labs/verifywise-sub000/pkg/server"
	"github.com/bluewave-labs/verifywise-sub000/pkg/storage"
)

var tenant = "default"

func init() {
	if t, ok := os.LookupEnv("TENANT"); ok {
		tenant = t
	}
}

func main() {
	upstreamUrl, ok := os.LookupEnv("UPSTREAM_URL")
	if !ok {
		log.Fatal("UPSTREAM_URL environment variable is not set")
	}
	listenAddress := ":8080"
	if addr, ok := os.LookupEnv("LISTEN_ADDRESS"); ok {
		listenAddress = addr
	}

	client := resource.NewClient(upstreamUrl)
	client.Token = os.Getenv("UPSTREAM_TOKEN")

	var store prefs.Store
	if redisUrl, ok := os.LookupEnv("REDIS_URL"); ok {
		db := 0
		if v, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
			db = v
		}
		store = prefs.NewRedisStore(redisUrl, os.Getenv("REDIS_PASSWORD"), db)
		log.Printf("Using redis preference store at %s", redisUrl)
	} else {
		store = prefs.NewMemoryStore()
		log.Println("REDIS_URL not set, preferences are kept in memory")
	}

	ws := server.NewWebServer(server.DefaultRegistry(), client, store)
	if secret, ok := os.LookupEnv("TOKEN_SECRET"); ok {
		ws.Auth = server.NewJwtAuth(secret)
	} else {
		log.Println("TOKEN_SECRET not set, mutation endpoints are open")
	}

	diskStorage := storage.NewDiskStorage(tenant, "data")
	ws.Storage = diskStorage
	if lists, err := diskStorage.LoadRecordLists(); err != nil {
		log.Printf("Could not load record snapshot: %v", err)
	} else {
		ws.SeedFromSnapshot(lists)
		log.Printf("Seeded %d entity lists from snapshot", len(lists))
	}

	if rabbitUrl, ok := os.LookupEnv("RABBIT_URL"); ok {
		conn, err := amqp.DialConfig(rabbitUrl, amqp.Config{
			Properties: amqp.NewConnectionProperties(),
		})
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer conn.Close()

		sender, err := messaging.NewChangeSender(conn, tenant, 64)
		if err != nil {
			log.Fatalf("Failed to set up change sender: %v", err)
		}
		ws.Sender = sender
		defer sender.Close()

		ch, err := conn.Channel()
		if err != nil {
			log.Fatalf("Failed to open a channel: %v", err)
		}
		if err := messaging.ListenForRecordChanges(ch, tenant, ws.ApplyChange); err != nil {
			log.Fatalf("Failed to listen for record changes: %v", err)
		}
		log.Printf("Listening for record changes as %s", tenant)
	} else {
		log.Println("RABBIT_URL not set, running without change events")
	}

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       30 * time.Second,
		Write:      30 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})

	enableProfiling := os.Getenv("ENABLE_PPROF") == "true"
	httpServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: ws.Handler(enableProfiling),
	}, timeouts)

	saveHook := func(ctx context.Context) error {
		return ws.SaveSnapshot()
	}
	common.RunServerWithShutdown(httpServer, "console table service", timeouts.Shutdown, timeouts.Hook, saveHook)
}
