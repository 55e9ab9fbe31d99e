// Job - обработка новых размещений
// Опрос Kafka -> создание вещей в статусе pending для модерации
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	db "github.com/glkeru/rewear/internal/db"
	kafka "github.com/glkeru/rewear/internal/external/kafka"
	interf "github.com/glkeru/rewear/internal/interfaces"
	services "github.com/glkeru/rewear/internal/services"
	"go.uber.org/zap"
)

func main() {
	// log
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// kafka
	reader, err := kafka.GetNewReader("listings")
	if err != nil {
		panic(err)
	}
	defer reader.CloseReader()

	// database
	var storage interf.Storage
	dt, err := db.NewSwapDB(logger)
	if err != nil {
		panic(err)
	}
	storage = dt

	// services
	serv := services.NewModerationService(logger, storage)

	// start
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// TODO: default
	var semcount int
	semenv := os.Getenv("REWEAR_LISTINGS_COUNT")
	if semenv == "" {
		semcount = 5
	} else {
		semcount, err = strconv.Atoi(semenv)
		if err != nil {
			semcount = 5
		}
	}
	if semcount == 0 {
		semcount = 1
	}

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, semcount)

loop:
	for {
		select {
		case <-interrupt:
			cancel()
			break loop
		case <-ctx.Done():
			break loop
		default:

			listing, err := reader.GetNewMessage(ctx)
			if err != nil {
				logger.Error(err.Error())
				return
			}

			semaphore <- struct{}{}
			wg.Add(1)
			go func(listing string) {
				defer wg.Done()
				defer func() { <-semaphore }()
				err = serv.Intake(ctx, listing)
				if err != nil {
					logger.Error(err.Error())
					return
				}
			}(listing)
		}
	}
	wg.Wait()
}
