package connect

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

const (
	// RequestIDHeader is the header carrying the request ID.
	RequestIDHeader = "X-Request-Id"
)

// NewLoggingInterceptor creates an interceptor that tags each unary call with
// a request ID and logs its procedure, duration and result code.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			requestID := req.Header().Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			start := time.Now()
			res, err := next(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				var cerr *connect.Error
				if errors.As(err, &cerr) {
					cerr.Meta().Set(RequestIDHeader, requestID)
				}
				zlog.Info().Msgf("rpc failed: procedure=%s request_id=%s code=%s elapsed=%s error=%v",
					req.Spec().Procedure, requestID, connect.CodeOf(err), elapsed, err)
				return nil, err
			}

			res.Header().Set(RequestIDHeader, requestID)
			zlog.Debug().Msgf("rpc: procedure=%s request_id=%s elapsed=%s", req.Spec().Procedure, requestID, elapsed)
			return res, nil
		}
	}
}
