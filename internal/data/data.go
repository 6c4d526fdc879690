package data

import (
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/infra/zendesk"
)

// Repositories contains all repositories
type Repositories struct {
	Ticketing repo.TicketingRepo
}

// NewRepositories creates all repositories
func NewRepositories(cfg zendesk.Config) (*Repositories, error) {
	client, err := zendesk.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Ticketing: NewZendeskRepo(client),
	}, nil
}
