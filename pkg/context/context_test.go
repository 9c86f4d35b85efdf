package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetRequestID(ctx))

	ctx = SetRequestID(ctx, "req-1")
	ctx = SetUserID(ctx, "user-1")
	ctx = SetMethod(ctx, "GET")
	ctx = SetRoute(ctx, "/bill-runs/1/review")
	ctx = SetRemoteIP(ctx, "10.0.0.1")
	ctx = SetBillRunID(ctx, "bill-run-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "GET", GetMethod(ctx))
	assert.Equal(t, "/bill-runs/1/review", GetRoute(ctx))
	assert.Equal(t, "10.0.0.1", GetRemoteIP(ctx))
	assert.Equal(t, "bill-run-1", GetBillRunID(ctx))
}

func TestFields(t *testing.T) {
	ctx := SetRequestID(context.Background(), "req-1")

	assert.Equal(t, map[string]any{"request_id": "req-1"}, Fields(ctx))

	ctx = SetBillRunID(ctx, "bill-run-1")
	assert.Equal(t, map[string]any{"request_id": "req-1", "bill_run_id": "bill-run-1"}, Fields(ctx))
}
