package messaging

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bluewave-labs/verifywise-sub000/pkg/types"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenForRecordChanges consumes batched record changes and hands each
// change to the handler. Unparsable messages are acked and logged so one bad
// payload cannot wedge the queue.
func ListenForRecordChanges(ch *amqp.Channel, prefix string, handler func(types.RecordChange)) error {
	fc, err := DeclareBindAndConsume(ch, prefix, RecordsChanged)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			var changes []types.RecordChange
			if err := json.Unmarshal(d.Body, &changes); err != nil {
				log.Printf("Failed to unmarshal record change message: %v", err)
				d.Ack(false)
				continue
			}
			for _, change := range changes {
				handler(change)
			}
			d.Ack(false)
		}
	}(fc)
	return nil
}
