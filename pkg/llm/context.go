package llm

import "context"

type contextKey struct{}

func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKey{}, client)
}

func FromContext(ctx context.Context) (Client, bool) {
	val := ctx.Value(contextKey{})
	if val == nil {
		return nil, false
	}

	client, ok := val.(Client)
	if !ok {
		return nil, false
	}

	return client, true
}
