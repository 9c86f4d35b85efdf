package context

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	MethodKey    = ContextKey("X-Method")
	RouteKey     = ContextKey("X-Route")
	RemoteIPKey  = ContextKey("X-Remote-Ip")
	UserIDKey    = ContextKey("X-User-Id")
	BillRunIDKey = ContextKey("X-Bill-Run-Id")
)

func get(ctx context.Context, key ContextKey) string {
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return get(ctx, RequestIDKey)
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	return get(ctx, UserIDKey)
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	return get(ctx, MethodKey)
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	return get(ctx, RouteKey)
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return context.WithValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	return get(ctx, RemoteIPKey)
}

// SetBillRunID tags the context with the bill run being worked on so log lines can be filtered by it
func SetBillRunID(ctx context.Context, billRunID string) context.Context {
	return context.WithValue(ctx, BillRunIDKey, billRunID)
}

func GetBillRunID(ctx context.Context) string {
	return get(ctx, BillRunIDKey)
}

// Fields returns the request values worth attaching to a log line
func Fields(ctx context.Context) map[string]any {
	fields := map[string]any{}
	for key, value := range map[string]string{
		"request_id":  GetRequestID(ctx),
		"user_id":     GetUserID(ctx),
		"bill_run_id": GetBillRunID(ctx),
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}
