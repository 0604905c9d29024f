package repositories

import (
	"context"
	"net/http"
	"net/url"
)

type ReferralRepository struct {
	client *APIClient
}

func NewReferralRepository(client *APIClient) *ReferralRepository {
	return &ReferralRepository{client: client}
}

func (rr *ReferralRepository) GetAll(ctx context.Context) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	if err := rr.client.do(ctx, http.MethodGet, "/referrals", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (rr *ReferralRepository) GetByStation(ctx context.Context, stationID string) ([]map[string]interface{}, error) {
	var docs []map[string]interface{}
	path := "/referrals?stationId=" + url.QueryEscape(stationID)
	if err := rr.client.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (rr *ReferralRepository) Create(ctx context.Context, body interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := rr.client.do(ctx, http.MethodPost, "/referrals", body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (rr *ReferralRepository) Update(ctx context.Context, id string, partial map[string]interface{}) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := rr.client.do(ctx, http.MethodPatch, "/referrals/"+url.PathEscape(id), partial, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
