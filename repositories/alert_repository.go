package repositories

import (
	"context"
	"net/http"
	"net/url"
)

// AlertRepository fetches and mutates alerts. Reads return raw
// documents because the server emits several historical payload shapes;
// the normalizer owns turning them into canonical alerts.
type AlertRepository struct {
	client *APIClient
}

func NewAlertRepository(client *APIClient) *AlertRepository {
	return &AlertRepository{client: client}
}

func (ar *AlertRepository) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	if err := ar.client.do(ctx, http.MethodGet, "/alerts", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (ar *AlertRepository) GetByStation(ctx context.Context, stationID string) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	path := "/alerts?stationId=" + url.QueryEscape(stationID)
	if err := ar.client.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (ar *AlertRepository) GetByUser(ctx context.Context, userID string) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	path := "/alerts?userId=" + url.QueryEscape(userID)
	if err := ar.client.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (ar *AlertRepository) Create(ctx context.Context, body interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := ar.client.do(ctx, http.MethodPost, "/alerts", body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ar *AlertRepository) Update(ctx context.Context, id string, partial map[string]interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := ar.client.do(ctx, http.MethodPatch, "/alerts/"+url.PathEscape(id), partial, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (ar *AlertRepository) Delete(ctx context.Context, id string) error {
	return ar.client.do(ctx, http.MethodDelete, "/alerts/"+url.PathEscape(id), nil, nil)
}
