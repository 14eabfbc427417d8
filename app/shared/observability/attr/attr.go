package attr

import (
	"context"
	"log/slog"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

type ctxKey string

// CorrelationIDKey stores the correlation id of the message being handled.
const CorrelationIDKey ctxKey = "correlation_id"

// WithCorrelationID returns ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// CorrelationIDFromContext returns the correlation id stored in ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}

// ExtractCorrelationID returns the correlation id of ctx as a log attribute.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationIDFromContext(ctx))
}

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

// Error logs err under "error"; a nil error is logged as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func LeagueID(id sharedtypes.LeagueID) slog.Attr { return slog.String("league_id", string(id)) }

func PlayerID(id sharedtypes.PlayerID) slog.Attr { return slog.String("player_id", string(id)) }

func EventDate(d sharedtypes.EventDate) slog.Attr { return slog.String("event_date", string(d)) }

func DrawID(id sharedtypes.DrawID) slog.Attr { return slog.String("draw_id", string(id)) }

// Event logs both halves of an event key.
func Event(k sharedtypes.EventKey) slog.Attr {
	return slog.Group("event",
		slog.String("league_id", string(k.LeagueID)),
		slog.String("date", string(k.Date)),
	)
}
