package api

import (
	"context"
	"net/http"

	"github.com/klwxsrx/vocab-client/internal/vocab/domain"
	pkghttp "github.com/klwxsrx/vocab-client/pkg/http"
)

var (
	listEntriesRoute = pkghttp.Route{Method: http.MethodGet, URL: "/entries"}
	getEntryRoute    = pkghttp.Route{Method: http.MethodGet, URL: "/entries/{id}"}
	createEntryRoute = pkghttp.Route{Method: http.MethodPost, URL: "/entries"}
	updateEntryRoute = pkghttp.Route{Method: http.MethodPut, URL: "/entries/{id}"}
	toggleEntryRoute = pkghttp.Route{Method: http.MethodPatch, URL: "/entries/{id}/toggle"}
	deleteEntryRoute = pkghttp.Route{Method: http.MethodDelete, URL: "/entries/{id}"}
)

type EntryService struct {
	client pkghttp.Client
}

func NewEntryService(client pkghttp.Client) *EntryService {
	return &EntryService{client: client}
}

func (s *EntryService) List(ctx context.Context, filter domain.EntryFilter) (domain.Page[domain.Entry], error) {
	resp, err := s.client.NewRequest(ctx, listEntriesRoute).
		SetOptionalBoolQueryParam("enabled", filter.Enabled).
		SetOptionalQueryParam("q", filter.Query).
		SetOptionalIntQueryParam("page", filter.Page).
		SetOptionalIntQueryParam("size", filter.Size).
		Send()
	return parse[domain.Page[domain.Entry]]("entry.list", resp, err)
}

func (s *EntryService) Get(ctx context.Context, id string) (*domain.Entry, error) {
	resp, err := s.client.NewRequest(ctx, getEntryRoute).
		SetPathParam("id", id).
		Send()
	return parsePtr[domain.Entry]("entry.get", resp, err)
}

func (s *EntryService) Create(ctx context.Context, in domain.EntryCreate) (*domain.Entry, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, createEntryRoute).
		SetBody(in).
		Send()
	return parsePtr[domain.Entry]("entry.create", resp, err)
}

func (s *EntryService) Update(ctx context.Context, id string, in domain.EntryUpdate) (*domain.Entry, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	resp, err := s.client.NewRequest(ctx, updateEntryRoute).
		SetPathParam("id", id).
		SetBody(in).
		Send()
	return parsePtr[domain.Entry]("entry.update", resp, err)
}

func (s *EntryService) Toggle(ctx context.Context, id string) (*domain.Entry, error) {
	resp, err := s.client.NewRequest(ctx, toggleEntryRoute).
		SetPathParam("id", id).
		Send()
	return parsePtr[domain.Entry]("entry.toggle", resp, err)
}

func (s *EntryService) Delete(ctx context.Context, id string) error {
	_, err := s.client.NewRequest(ctx, deleteEntryRoute).
		SetPathParam("id", id).
		Send()
	return mapError("entry.delete", err)
}
