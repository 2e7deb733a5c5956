package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

func MustDialRabbit(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		panic(fmt.Sprintf("connect to RabbitMQ: %v", err))
	}
	return conn
}
