package nats

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/shoecatalog/pkg/messaging"
	"github.com/abgdnv/shoecatalog/pkg/messaging/events"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	skipIntegrationTests = "CATALOG_SVC_SKIP_INTEGRATION_TESTS"
	natsImg              = "nats:2.11.6-alpine"
	streamName           = "CATALOG_TEST"
)

// PublisherSuite publishes catalog events to a JetStream container and reads them back.
type PublisherSuite struct {
	suite.Suite
	ctx           context.Context
	natsContainer *nats.NATSContainer
	nc            *natsgo.Conn
	js            jetstream.JetStream
}

func (s *PublisherSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.natsContainer, err = nats.Run(s.ctx, natsImg)
	require.NoError(s.T(), err, "Failed to run NATS container")

	natsURL, err := s.natsContainer.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	s.nc, err = NewClient(natsURL, 5*time.Second)
	require.NoError(s.T(), err, "Failed to connect to NATS")
	s.js, err = NewJetStreamContext(s.nc)
	require.NoError(s.T(), err, "Failed to get JetStream context")

	require.NoError(s.T(), EnsureStream(s.ctx, s.js, streamName, messaging.CatalogSubjects))
	require.NoError(s.T(), EnsureStream(s.ctx, s.js, streamName, messaging.CatalogSubjects), "EnsureStream must be repeatable")
}

func (s *PublisherSuite) TearDownSuite() {
	if s.nc != nil {
		s.nc.Close()
	}
	if err := testcontainers.TerminateContainer(s.natsContainer); err != nil {
		s.T().Logf("Failed to terminate NATS container: %v", err)
	}
}

func (s *PublisherSuite) TestPublishProductCreated() {
	// given
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(s.ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
	event := events.ProductCreated(events.ProductSnapshot{SKU: 100, Name: "Runner", Price: 59.99, Available: true},
		time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))

	// when
	err := NewNatsPublisher(s.js).Publish(ctx, event)

	// then
	s.Require().NoError(err)
	stream, err := s.js.Stream(s.ctx, streamName)
	s.Require().NoError(err)
	msg, err := stream.GetLastMsgForSubject(s.ctx, "catalog.product.created")
	s.Require().NoError(err)

	var got events.ProductChangedEvent
	s.Require().NoError(json.Unmarshal(msg.Data, &got))
	s.Equal(event.SKU, got.SKU)
	s.Equal(events.ActionCreated, got.Action)
	s.Equal(*event.Product, *got.Product)
	s.Contains(msg.Header.Get("traceparent"), traceID.String())
}

func (s *PublisherSuite) TestPublishProductDeleted() {
	// when
	err := NewNatsPublisher(s.js).Publish(s.ctx, events.ProductDeleted(7, time.Now().UTC()))

	// then
	s.Require().NoError(err)
	stream, err := s.js.Stream(s.ctx, streamName)
	s.Require().NoError(err)
	msg, err := stream.GetLastMsgForSubject(s.ctx, "catalog.product.deleted")
	s.Require().NoError(err)
	s.JSONEq(`"deleted"`, string(mustField(s.T(), msg.Data, "action")))
	s.Nil(mustField(s.T(), msg.Data, "product"))
}

func mustField(t *testing.T, data []byte, key string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	return fields[key]
}

func TestPublisherIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PublisherSuite))
}
