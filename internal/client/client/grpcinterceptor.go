package client

import (
	"context"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationMetadataKey = "authorization"

// grpcStatuses maps the gRPC codes the classifier knows to HTTP statuses.
var grpcStatuses = map[codes.Code]int{
	codes.Unavailable:      0,
	codes.DeadlineExceeded: 0,
	codes.Unauthenticated:  http.StatusUnauthorized,
	codes.PermissionDenied: http.StatusForbidden,
	codes.NotFound:         http.StatusNotFound,
	codes.AlreadyExists:    http.StatusConflict,
	codes.Aborted:          http.StatusConflict,
	codes.InvalidArgument:  http.StatusBadRequest,
	codes.Internal:         http.StatusInternalServerError,
}

func withBearer(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(authorizationMetadataKey, "Bearer "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// UnaryClientInterceptor applies the interceptor policy to gRPC calls.
// Codes without an HTTP counterpart are returned unchanged.
func (i *AuthInterceptor) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if token, ok := i.tokens.GetToken(ctx); ok {
			ctx = withBearer(ctx, token)
		}

		err := invoker(ctx, method, req, reply, cc, opts...)
		if err == nil {
			return nil
		}

		st, ok := status.FromError(err)
		if !ok {
			return err
		}
		code, ok := grpcStatuses[st.Code()]
		if !ok {
			return err
		}

		return i.fail(ctx, Failure{
			Status:      code,
			Message:     st.Message(),
			FieldErrors: fieldViolations(st),
			Detail:      method + ": " + st.Code().String() + ": " + st.Message(),
			Cause:       err,
		})
	}
}

func fieldViolations(st *status.Status) []FieldError {
	var out []FieldError
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range br.GetFieldViolations() {
			out = append(out, FieldError{Field: v.GetField(), Message: v.GetDescription()})
		}
	}
	return out
}
