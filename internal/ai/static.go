// README: Static provider returning a canned reply (offline demos).
package ai

import "context"

// StaticProvider returns the same reply for every prompt.
type StaticProvider struct {
	reply string
}

func NewStaticProvider(reply string) *StaticProvider {
	return &StaticProvider{reply: reply}
}

func (p *StaticProvider) PlanItinerary(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.reply, nil
}

func (p *StaticProvider) Name() string { return ProviderStatic }
func (p *StaticProvider) Close() error { return nil }
