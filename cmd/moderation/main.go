// Job - обработка решений модерации
// Очередь RabbitMQ -> перевод вещей pending -> available/removed + подтверждение
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	db "github.com/glkeru/rewear/internal/db"
	rabbit "github.com/glkeru/rewear/internal/external/rabbitmq"
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

	// rabbitmq
	reader, err := rabbit.NewRabbitConsumer()
	if err != nil {
		logger.Error(err.Error())
		panic(err)
	}
	defer reader.Close()

	// database
	var storage interf.Storage
	dt, err := db.NewSwapDB(logger)
	if err != nil {
		logger.Error(err.Error())
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
	semenv := os.Getenv("REWEAR_MODERATION_COUNT")
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

	// os signals
	go func() {
		<-interrupt
		cancel()
	}()

	// workers
	wg := &sync.WaitGroup{}
	wg.Add(semcount)
	for i := 0; i < semcount; i++ {
		go worker(ctx, serv, wg, logger, reader)
	}
	wg.Wait()
}

// worker for rabbitmq messages
func worker(ctx context.Context, serv *services.ModerationService, wg *sync.WaitGroup, logger *zap.Logger, reader *rabbit.RabbitConsumer) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, ok := <-reader.Msg
			if !ok {
				return
			}
			itemId, err := serv.Decide(ctx, string(msg.Body))
			if err != nil {
				logger.Error(err.Error())
				if itemId != "" {
					_ = reader.Processed(ctx, itemId, false)
				}
				continue
			}
			err = reader.Processed(ctx, itemId, true)
			if err != nil {
				logger.Error(err.Error())
				continue
			}
		}
	}
}
