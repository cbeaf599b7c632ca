package api

import (
	"context"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

var entryStatsRoute = pkghttp.Route{Method: http.MethodGet, URL: "/stats/entries"}

type StatsService struct {
	client pkghttp.Client
}

func NewStatsService(client pkghttp.Client) *StatsService {
	return &StatsService{client: client}
}

func (s *StatsService) EntryStats(ctx context.Context) ([]domain.EntryStats, error) {
	resp, err := s.client.NewRequest(ctx, entryStatsRoute).Send()
	return parse[[]domain.EntryStats]("stats.entryStats", resp, err)
}
