// Asynqmon dashboard for the upload cleanup queues. Shows pending and failed
// sweeps so a stuck orphan cleanup is visible without shelling into Redis.
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
)

func main() {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	h := asynqmon.New(asynqmon.Options{
		RootPath:     "/asynqmon",
		RedisConnOpt: asynq.RedisClientOpt{Addr: redisAddr},
	})

	port := os.Getenv("ASYNQMON_PORT")
	if port == "" {
		port = "8090"
	}

	log.Printf("Threadline queue dashboard on :%s (Redis %s), path /asynqmon", port, redisAddr)
	log.Fatal(http.ListenAndServe(":"+port, h))
}
