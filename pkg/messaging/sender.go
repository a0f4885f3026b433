package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bluewave-labs/verifywise-sub000/pkg/common"
	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return nil
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := getName(prefix, topic)
	return ch.Publish(
		name,
		name,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        bytes,
		},
	)
}

// ChangeSender batches record changes so a burst of mutations becomes one
// message instead of many.
type ChangeSender struct {
	conn   *amqp.Connection
	prefix string
	queue  *common.QueueHandler[types.RecordChange]
}

func NewChangeSender(conn *amqp.Connection, prefix string, chunkSize int) (*ChangeSender, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	if err := DefineTopic(ch, prefix, RecordsChanged); err != nil {
		return nil, err
	}
	s := &ChangeSender{conn: conn, prefix: prefix}
	s.queue = common.NewQueueHandler(func(changes []types.RecordChange) {
		if err := SendChange(s.conn, s.prefix, RecordsChanged, changes); err != nil {
			log.Printf("Failed to publish %d record changes: %v", len(changes), err)
		}
	}, chunkSize)
	return s, nil
}

func (s *ChangeSender) Send(change types.RecordChange) {
	s.queue.Add(change)
}

func (s *ChangeSender) Close() {
	s.queue.Close()
}
