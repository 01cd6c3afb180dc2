package middleware

import "context"

type ctxKey string

// Флаг ставится админам, чтобы пропускать все role-проверки.
const ContextSkipGuards ctxKey = "skip_guards"

func WithSkipGuards(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextSkipGuards, true)
}

func SkipGuards(ctx context.Context) bool {
	v := ctx.Value(ContextSkipGuards)
	b, _ := v.(bool)
	return b
}
