package ctxkeys

import "context"

// contextKey 用于在 context 中存储值的键类型
type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	batchIDKey contextKey = "batch_id"
	itemIDKey  contextKey = "item_id"
)

// WithTraceID 设置 TraceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID 获取 TraceID
func TraceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithBatchID 设置当前批次 ID，供日志与审计记录关联同一批次内的条目
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// BatchID 获取当前批次 ID
func BatchID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(batchIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithItemID 设置单条提交在其批次内的关联 ID
func WithItemID(ctx context.Context, itemID string) context.Context {
	return context.WithValue(ctx, itemIDKey, itemID)
}

// ItemID 获取单条提交的关联 ID
func ItemID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(itemIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
