// Package events publishes game events on NATS.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/nats-io/nats.go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const contentType = "application/json"

// Conn is the part of a NATS connection the publisher uses.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	Drain() error
}

// NatsPublisher sends events as JSON encoded protobuf Structs.
type NatsPublisher struct {
	conn   Conn
	prefix string
}

var _ i.EventPublisher = &NatsPublisher{}

// Connect dials url and returns a publisher whose subjects are prefixed
// with prefix.
func Connect(url, prefix string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("vinom-sweeper"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return NewNatsPublisher(nc, prefix), nil
}

func NewNatsPublisher(conn Conn, prefix string) *NatsPublisher {
	return &NatsPublisher{conn: conn, prefix: prefix}
}

func (p *NatsPublisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

// Publish encodes payload and sends it on subject.
func (p *NatsPublisher) Publish(ctx context.Context, subject string, payload map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := structpb.NewStruct(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", subject, err)
	}
	data, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", subject, err)
	}

	msg := nats.NewMsg(p.subject(subject))
	msg.Header.Set("Content-Type", contentType)
	msg.Data = data
	return p.conn.PublishMsg(msg)
}

// Close flushes pending messages and closes the connection.
func (p *NatsPublisher) Close() {
	_ = p.conn.Drain()
}

// Decode reads an event published by NatsPublisher.
func Decode(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, errors.New("empty event")
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return st.AsMap(), nil
}

// Noop drops every event. It stands in when no broker is configured.
type Noop struct{}

var _ i.EventPublisher = Noop{}

func (Noop) Publish(context.Context, string, map[string]interface{}) error { return nil }
func (Noop) Close()                                                       {}
