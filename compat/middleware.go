package compat

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/yoonhyunchan/logsink"
)

// RequestLogger wraps a fasthttp handler and logs one record per request with
// method, path, remote address, status, and elapsed time. Status 5xx logs at
// error level, 4xx at warning, everything else at info.
func RequestLogger(logger *logsink.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		status := ctx.Response.StatusCode()
		args := []any{
			"method", string(ctx.Method()),
			"path", string(ctx.Path()),
			"remote", ctx.RemoteAddr().String(),
			"status", status,
			"elapsed_ms", elapsed.Milliseconds(),
		}

		switch {
		case status >= 500:
			logger.Error(args...)
		case status >= 400:
			logger.Warn(args...)
		default:
			logger.Info(args...)
		}
	}
}
