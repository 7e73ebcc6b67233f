package db

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type contextKey string

const DBConnKey contextKey = "db_conn"

// ConnMiddleware acquires one pooled connection per request and releases it
// once the handler returns. Repositories pick it up through Conn.
func ConnMiddleware(pool *pgxpool.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			conn, err := pool.Acquire(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
			defer conn.Release()

			c.SetRequest(c.Request().WithContext(WithConn(ctx, conn)))
			return next(c)
		}
	}
}

// WithConn returns a context carrying q as the request-scoped connection.
func WithConn(ctx context.Context, q Queryable) context.Context {
	return context.WithValue(ctx, DBConnKey, q)
}

// ConnFromContext retrieves the request-scoped connection, or nil.
func ConnFromContext(ctx context.Context) Queryable {
	q, _ := ctx.Value(DBConnKey).(Queryable)
	return q
}

// Conn returns the request-scoped connection when one is attached to ctx and
// falls back to the given default otherwise.
func Conn(ctx context.Context, fallback Queryable) Queryable {
	if q := ConnFromContext(ctx); q != nil {
		return q
	}
	return fallback
}
