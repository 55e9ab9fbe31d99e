package kafka

import (
	"context"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
)

// Чтение событий каталога о новых размещениях
type KafkaListings struct {
	reader *kafka.Reader
}

func GetNewReader(topic string) (reader *KafkaListings, err error) {
	// config
	kafkaurl := os.Getenv("KAFKA_LISTINGS_URL")
	if kafkaurl == "" {
		return nil, fmt.Errorf("env KAFKA_LISTINGS_URL is not set")
	}
	kafkaport := os.Getenv("KAFKA_LISTINGS_PORT")
	if kafkaport == "" {
		return nil, fmt.Errorf("env KAFKA_LISTINGS_PORT is not set")
	}

	kafkaconfig := kafka.ReaderConfig{
		Brokers: []string{kafkaurl + ":" + kafkaport},
		Topic:   topic,
		GroupID: "listings_rewear",
	}
	return &KafkaListings{kafka.NewReader(kafkaconfig)}, nil
}

func (k *KafkaListings) GetNewMessage(ctx context.Context) (listingJson string, err error) {
	msg, err := k.reader.ReadMessage(ctx)
	if err != nil {
		return "", err
	}
	return string(msg.Value), nil
}

func (k *KafkaListings) CloseReader() {
	k.reader.Close()
}
