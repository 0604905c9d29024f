package services

import (
	"strings"
	"time"

	"firedesk/models"
	"firedesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The central service has gone through several payload conventions:
// ids under "_id" or "id", stations nested as objects or flattened to
// ids, coordinates under two key namings, timestamps as RFC3339
// strings or Mongo extended JSON. Everything downstream depends only
// on the canonical models, so all of that tolerance lives here.
//
// Normalization never panics into the event pipeline; a payload that
// cannot yield an id is rejected with a NORMALIZATION_ERROR and the
// caller logs and drops it.

// CanonicalID resolves a raw id value to its canonical string form.
// Accepts plain strings, ObjectID hex (re-rendered through the driver
// so casing is stable) and nested documents carrying _id or id.
func CanonicalID(v interface{}) string {
	switch t := v.(type) {
	case string:
		if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(t)); err == nil {
			return oid.Hex()
		}
		return strings.TrimSpace(t)
	case map[string]interface{}:
		if id := CanonicalID(t["_id"]); id != "" {
			return id
		}
		return CanonicalID(t["id"])
	}
	return ""
}

// DocumentID extracts the entity id from a raw document.
func DocumentID(doc map[string]interface{}) string {
	if id := CanonicalID(doc["_id"]); id != "" {
		return id
	}
	return CanonicalID(doc["id"])
}

// NormalizeAlert converts any supported alert payload shape into the
// canonical Alert.
func NormalizeAlert(doc map[string]interface{}) (*models.Alert, error) {
	id := DocumentID(doc)
	if id == "" {
		return nil, utils.NewNormalizationError("alert payload has no id")
	}

	alert := &models.Alert{
		ID:       id,
		Type:     stringField(doc, "type", "alertType"),
		Title:    stringField(doc, "title", "name"),
		Message:  stringField(doc, "message", "description"),
		Priority: strings.ToLower(stringField(doc, "priority")),
		Status:   strings.ToLower(stringField(doc, "status")),
	}

	if alert.Type == "" {
		alert.Type = models.AlertTypeOther
	}
	if alert.Status == "" {
		alert.Status = models.AlertStatusActive
	}
	if alert.Priority == "" {
		alert.Priority = models.PriorityLow
	}

	alert.Reporter = reporterField(doc)
	alert.StationID, alert.Station = stationField(doc)
	alert.Location = locationField(doc)

	if created := timeField(doc, "createdAt", "created_at"); created != nil {
		alert.CreatedAt = *created
	} else {
		// Only creation timestamps fall back to now. Update and
		// resolution timestamps are never fabricated.
		alert.CreatedAt = time.Now()
	}
	alert.UpdatedAt = timeField(doc, "updatedAt", "updated_at")
	alert.ResolvedAt = timeField(doc, "resolvedAt", "resolved_at")

	return alert, nil
}

// NormalizeIncident converts any supported incident payload shape into
// the canonical Incident.
func NormalizeIncident(doc map[string]interface{}) (*models.Incident, error) {
	id := DocumentID(doc)
	if id == "" {
		return nil, utils.NewNormalizationError("incident payload has no id")
	}

	incident := &models.Incident{
		ID:               id,
		DepartmentOnDuty: stringField(doc, "departmentOnDuty", "department_on_duty"),
		UnitOnDuty:       stringField(doc, "unitOnDuty", "unit_on_duty"),
		Status:           strings.ToLower(stringField(doc, "status")),
	}

	if incident.Status == "" {
		incident.Status = models.IncidentStatusActive
	}

	// Alert reference: nested snapshot or flat id.
	if nested, ok := doc["alert"].(map[string]interface{}); ok {
		incident.AlertID = DocumentID(nested)
		if snapshot, err := NormalizeAlert(nested); err == nil {
			incident.Alert = snapshot
		}
	}
	if incident.AlertID == "" {
		incident.AlertID = CanonicalID(firstPresent(doc, "alertId", "alert_id", "alert"))
	}

	incident.StationID, incident.Station = stationField(doc)
	incident.ResponseTime = minutesField(doc, "responseTime", "response_time")
	incident.ResolutionTime = minutesField(doc, "resolutionTime", "resolution_time")
	incident.TotalTime = minutesField(doc, "totalTime", "total_time")

	if created := timeField(doc, "createdAt", "created_at"); created != nil {
		incident.CreatedAt = *created
	} else {
		incident.CreatedAt = time.Now()
	}
	incident.UpdatedAt = timeField(doc, "updatedAt", "updated_at")
	incident.ResolvedAt = timeField(doc, "resolvedAt", "resolved_at")

	return incident, nil
}

// NormalizeReferral converts any supported referral payload shape into
// the canonical Referral. The flat FromStationID/ToStationID pair is
// the only station representation downstream code ever sees.
func NormalizeReferral(doc map[string]interface{}) (*models.Referral, error) {
	id := DocumentID(doc)
	if id == "" {
		return nil, utils.NewNormalizationError("referral payload has no id")
	}

	referral := &models.Referral{
		ID:            id,
		Reason:        stringField(doc, "reason"),
		Status:        strings.ToLower(stringField(doc, "status")),
		ResponseNotes: stringField(doc, "responseNotes", "response_notes", "notes"),
	}

	if referral.Status == "" {
		referral.Status = models.ReferralStatusPending
	}

	referral.EntityType = strings.ToLower(stringField(doc, "entityType", "entity_type"))
	referral.EntityID = CanonicalID(firstPresent(doc, "entityId", "entity_id"))
	if nested, ok := doc["alert"].(map[string]interface{}); ok {
		referral.EntityType = models.ReferralEntityAlert
		referral.EntityID = DocumentID(nested)
	} else if nested, ok := doc["incident"].(map[string]interface{}); ok {
		referral.EntityType = models.ReferralEntityIncident
		referral.EntityID = DocumentID(nested)
	}
	if referral.EntityID == "" {
		return nil, utils.NewNormalizationError("referral payload has no entity reference")
	}
	if referral.EntityType == "" {
		referral.EntityType = models.ReferralEntityAlert
	}

	referral.FromStationID, referral.FromStation = namedStationField(doc, "fromStation", "from_station", "fromStationId", "from_station_id")
	referral.ToStationID, referral.ToStation = namedStationField(doc, "toStation", "to_station", "toStationId", "to_station_id")

	if created := timeField(doc, "createdAt", "created_at"); created != nil {
		referral.CreatedAt = *created
	} else {
		referral.CreatedAt = time.Now()
	}
	referral.UpdatedAt = timeField(doc, "updatedAt", "updated_at")

	return referral, nil
}

// =================== FIELD EXTRACTION HELPERS ===================

func firstPresent(doc map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := doc[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(doc map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && s != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func floatField(doc map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		switch t := doc[key].(type) {
		case float64:
			v := t
			return &v
		case int:
			v := float64(t)
			return &v
		}
	}
	return nil
}

func minutesField(doc map[string]interface{}, keys ...string) *int {
	if f := floatField(doc, keys...); f != nil {
		v := int(*f)
		return &v
	}
	return nil
}

// stationField resolves the assigned station from any of its shapes:
// a nested object under "station" or "stationInfo", or a flat
// "stationId" (optionally with "stationName" for a display snapshot).
func stationField(doc map[string]interface{}) (string, *models.StationRef) {
	for _, key := range []string{"station", "stationInfo"} {
		switch t := doc[key].(type) {
		case map[string]interface{}:
			id := DocumentID(t)
			if id == "" {
				continue
			}
			return id, &models.StationRef{ID: id, Name: stringField(t, "name")}
		case string:
			if id := CanonicalID(t); id != "" {
				return id, nil
			}
		}
	}

	if id := CanonicalID(firstPresent(doc, "stationId", "station_id")); id != "" {
		var ref *models.StationRef
		if name := stringField(doc, "stationName", "station_name"); name != "" {
			ref = &models.StationRef{ID: id, Name: name}
		}
		return id, ref
	}
	return "", nil
}

// namedStationField does the same resolution for referral endpoints,
// where the object and flat keys are caller-specific.
func namedStationField(doc map[string]interface{}, keys ...string) (string, *models.StationRef) {
	for _, key := range keys {
		switch t := doc[key].(type) {
		case map[string]interface{}:
			id := DocumentID(t)
			if id == "" {
				continue
			}
			return id, &models.StationRef{ID: id, Name: stringField(t, "name")}
		case string:
			if id := CanonicalID(t); id != "" {
				return id, nil
			}
		}
	}
	return "", nil
}

func reporterField(doc map[string]interface{}) *models.Reporter {
	for _, key := range []string{"reporter", "user"} {
		switch t := doc[key].(type) {
		case map[string]interface{}:
			reporter := &models.Reporter{
				ID:    DocumentID(t),
				Name:  stringField(t, "name", "fullName"),
				Phone: stringField(t, "phone", "phoneNumber"),
				Email: stringField(t, "email"),
			}
			if reporter.ID == "" && reporter.Name == "" && reporter.Phone == "" && reporter.Email == "" {
				continue
			}
			return reporter
		case string:
			if id := CanonicalID(t); id != "" {
				return &models.Reporter{ID: id}
			}
		}
	}

	if id := CanonicalID(firstPresent(doc, "reporterId", "userId", "user_id")); id != "" {
		return &models.Reporter{ID: id}
	}
	return nil
}

func locationField(doc map[string]interface{}) models.AlertLocation {
	location := models.AlertLocation{}

	if nested, ok := doc["location"].(map[string]interface{}); ok {
		location.Name = stringField(nested, "name", "address", "placeName")
		location.MapURL = stringField(nested, "mapUrl", "map_url")
		location.Latitude, location.Longitude = coordinatesField(nested)
	} else {
		location.Name = stringField(doc, "locationName", "location_name", "address")
		location.MapURL = stringField(doc, "mapUrl", "map_url")
	}

	if location.Latitude == nil {
		location.Latitude, location.Longitude = coordinatesField(doc)
	}
	return location
}

// coordinatesField accepts GPS under "coordinates" or "gps", either a
// flat object of floats (lat/lng or latitude/longitude) or wrapped one
// level deeper. Out-of-range pairs are discarded.
func coordinatesField(doc map[string]interface{}) (*float64, *float64) {
	for _, key := range []string{"coordinates", "gps"} {
		obj, ok := doc[key].(map[string]interface{})
		if !ok {
			continue
		}
		if inner, ok := obj["coordinates"].(map[string]interface{}); ok {
			obj = inner
		}

		lat := floatField(obj, "lat", "latitude")
		lng := floatField(obj, "lng", "lon", "longitude")
		if lat == nil || lng == nil {
			continue
		}
		if !utils.IsValidCoordinate(*lat, *lng) {
			continue
		}
		return lat, lng
	}
	return nil, nil
}

// timeField tolerates RFC3339 strings, Mongo extended JSON date
// wrappers and raw epoch numbers. Missing or unparseable values yield
// nil; the caller decides whether a fallback is legitimate.
func timeField(doc map[string]interface{}, keys ...string) *time.Time {
	for _, key := range keys {
		if parsed := parseTime(doc[key]); parsed != nil {
			return parsed
		}
	}
	return nil
}

func parseTime(v interface{}) *time.Time {
	switch t := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
	case float64:
		return epochTime(t)
	case map[string]interface{}:
		// Mongo extended JSON: {"$date": <epoch-ms>} or
		// {"$date": {"$numberLong": "<epoch-ms>"}}.
		switch d := t["$date"].(type) {
		case float64:
			return epochTime(d)
		case string:
			return parseTime(d)
		case map[string]interface{}:
			if s, ok := d["$numberLong"].(string); ok {
				var millis float64
				for _, r := range s {
					if r < '0' || r > '9' {
						return nil
					}
					millis = millis*10 + float64(r-'0')
				}
				return epochTime(millis)
			}
		}
	}
	return nil
}

func epochTime(v float64) *time.Time {
	if v <= 0 {
		return nil
	}
	var parsed time.Time
	if v > 1e12 {
		// epoch milliseconds
		parsed = time.UnixMilli(int64(v)).UTC()
	} else {
		parsed = time.Unix(int64(v), 0).UTC()
	}
	return &parsed
}
