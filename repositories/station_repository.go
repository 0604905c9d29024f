package repositories

import (
	"context"
	"net/http"
	"net/url"

	"firedesk/models"
)

// StationRepository reads the station directory. Stations come in one
// well-formed shape, so they decode straight into the model.
type StationRepository struct {
	client *APIClient
}

func NewStationRepository(client *APIClient) *StationRepository {
	return &StationRepository{client: client}
}

func (sr *StationRepository) GetAll(ctx context.Context) ([]*models.Station, error) {
	var stations []*models.Station
	if err := sr.client.do(ctx, http.MethodGet, "/stations", nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

func (sr *StationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	var station models.Station
	if err := sr.client.do(ctx, http.MethodGet, "/stations/"+url.PathEscape(id), nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}
