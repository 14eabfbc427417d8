package handlerwrapper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type pingPayload struct {
	Name string `json:"name"`
}

type pongPayload struct {
	Greeting string `json:"greeting"`
}

func TestWrapTransformingTyped(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name      string
		payload   string
		handler   TypedHandler[pingPayload]
		wantMsgs  int
		wantTopic string
		wantErr   bool
	}{
		{
			name:    "decodes payload and routes result by metadata",
			payload: `{"name":"ana"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				assert.Equal(t, "corr-1", attr.CorrelationIDFromContext(ctx))
				return []Result{{Topic: "pong.v1", Payload: pongPayload{Greeting: "hi " + p.Name}}}, nil
			},
			wantMsgs:  1,
			wantTopic: "pong.v1",
		},
		{
			name:    "undecodable payload is dropped",
			payload: `{not json`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, errors.New("handler must not run")
			},
			wantMsgs: 0,
		},
		{
			name:    "handler error is returned for retry",
			payload: `{"name":"ana"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantErr: true,
		},
		{
			name:    "result without topic is an error",
			payload: `{"name":"ana"}`,
			handler: func(ctx context.Context, p *pingPayload) ([]Result, error) {
				return []Result{{Payload: pongPayload{}}}, nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewMessage("msg-1", []byte(tt.payload))
			middleware.SetCorrelationID("corr-1", msg)

			out, err := WrapTransformingTyped("test.ping", logger, tracer, tt.handler)(msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, tt.wantMsgs)
			if tt.wantMsgs > 0 {
				assert.Equal(t, tt.wantTopic, out[0].Metadata.Get(TopicMetadataKey))
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))
				assert.JSONEq(t, `{"greeting":"hi ana"}`, string(out[0].Payload))
			}
		})
	}
}

func TestToMessageGeneratesCorrelationID(t *testing.T) {
	m, err := ToMessage(Result{Topic: "x.v1", Payload: map[string]int{"a": 1}, Metadata: map[string]string{"k": "v"}}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, middleware.MessageCorrelationID(m))
	assert.Equal(t, "v", m.Metadata.Get("k"))
	assert.Equal(t, "x.v1", m.Metadata.Get(TopicMetadataKey))
}
