package repositories

import (
	"context"
	"net/http"
	"net/url"
)

type IncidentRepository struct {
	client *APIClient
}

func NewIncidentRepository(client *APIClient) *IncidentRepository {
	return &IncidentRepository{client: client}
}

func (ir *IncidentRepository) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	if err := ir.client.do(ctx, http.MethodGet, "/incidents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (ir *IncidentRepository) GetByStation(ctx context.Context, stationID string) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	path := "/incidents?stationId=" + url.QueryEscape(stationID)
	if err := ir.client.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (ir *IncidentRepository) Create(ctx context.Context, body interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := ir.client.do(ctx, http.MethodPost, "/incidents", body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ir *IncidentRepository) Update(ctx context.Context, id string, partial map[string]interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := ir.client.do(ctx, http.MethodPatch, "/incidents/"+url.PathEscape(id), partial, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ir *IncidentRepository) Delete(ctx context.Context, id string) error {
	return ir.client.do(ctx, http.MethodDelete, "/incidents/"+url.PathEscape(id), nil, nil)
}
