package v1

import (
	"github.com/shenikar/safe_route_system/internal/models"
)

// DTOToReportModel преобразует DTO отчета в доменную модель
func DTOToReportModel(dto CreateReportRequest) *models.RiskReport {
	return &models.RiskReport{
		CellToken:  models.CellToken(dto.CellToken),
		Polarity:   models.Polarity(dto.Polarity),
		Severity:   dto.Severity,
		ReporterID: dto.ReporterID,
	}
}

// ModelToReportResponse преобразует доменную модель отчета в DTO для ответа
func ModelToReportResponse(model *models.RiskReport) *ReportResponse {
	return &ReportResponse{
		ID:          model.ID,
		CellToken:   string(model.CellToken),
		Polarity:    string(model.Polarity),
		Severity:    model.Severity,
		SubmittedAt: model.SubmittedAt,
	}
}

// ModelToCellResponse преобразует агрегат ячейки в DTO для ответа
func ModelToCellResponse(model *models.GeoCell) *CellResponse {
	return &CellResponse{
		Token:       string(model.Token),
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Safety:      model.Safety,
		ReportCount: model.ReportCount,
		UpdatedAt:   model.UpdatedAt,
	}
}

// DTOToCandidateModel преобразует DTO кандидата маршрута в доменную модель
func DTOToCandidateModel(dto RouteCandidateRequest) models.RouteCandidate {
	cells := make([]models.CellToken, len(dto.Cells))
	for i, token := range dto.Cells {
		cells[i] = models.CellToken(token)
	}
	return models.RouteCandidate{
		ID:           dto.ID,
		Cells:        cells,
		DwellSeconds: dto.DwellSeconds,
		ETASeconds:   dto.ETASeconds,
	}
}

// ModelToScoredRouteResponse преобразует оцененный маршрут в DTO для ответа
func ModelToScoredRouteResponse(model *models.ScoredRoute) *ScoredRouteResponse {
	cells := make([]string, len(model.Candidate.Cells))
	for i, token := range model.Candidate.Cells {
		cells[i] = string(token)
	}
	contribs := make([]CellContributionResponse, len(model.Explanation.Cells))
	for i, c := range model.Explanation.Cells {
		contribs[i] = CellContributionResponse{
			Token:     string(c.Token),
			Safety:    c.Safety,
			Effective: c.Effective,
			Weight:    c.Weight,
		}
	}
	return &ScoredRouteResponse{
		ID:              model.Candidate.ID,
		Cells:           cells,
		ETASeconds:      model.Candidate.ETASeconds,
		Score:           model.Score,
		NightMultiplier: model.Explanation.NightMultiplier,
		Contributions:   contribs,
	}
}

// ModelsToScoredRouteResponses преобразует слайс оцененных маршрутов в слайс DTO
func ModelsToScoredRouteResponses(routes []*models.ScoredRoute) []*ScoredRouteResponse {
	responses := make([]*ScoredRouteResponse, len(routes))
	for i, route := range routes {
		responses[i] = ModelToScoredRouteResponse(route)
	}
	return responses
}

// ModelToSessionResponse преобразует SOS-сессию в DTO для ответа.
// Снимок контактов наружу не отдается, только журнал доставки.
func ModelToSessionResponse(model *models.SOSSession) *SessionResponse {
	deliveries := make([]DeliveryRecordResponse, len(model.Deliveries))
	for i, record := range model.Deliveries {
		deliveries[i] = DeliveryRecordResponse{
			ContactID: record.ContactID,
			AttemptID: record.AttemptID,
			Tier:      record.Tier,
			Channel:   string(record.Channel),
			Status:    string(record.Status),
			Reason:    record.Reason,
			SentAt:    record.SentAt,
			UpdatedAt: record.UpdatedAt,
		}
	}

	resp := &SessionResponse{
		ID:             model.ID,
		UserID:         string(model.UserID),
		State:          string(model.State),
		EscalationTier: model.EscalationTier,
		Deliveries:     deliveries,
		CreatedAt:      model.CreatedAt,
		ClosedAt:       model.ClosedAt,
	}
	if model.LastFix != nil {
		resp.LastFix = &LocationFixResponse{
			Latitude:       model.LastFix.Latitude,
			Longitude:      model.LastFix.Longitude,
			AccuracyMeters: model.LastFix.AccuracyMeters,
			Timestamp:      model.LastFix.Timestamp,
		}
	}
	return resp
}

// ModelToContactResponse преобразует контакт в DTO для ответа
func ModelToContactResponse(model *models.EmergencyContact) *ContactResponse {
	return &ContactResponse{
		ID:        model.ID,
		UserID:    string(model.UserID),
		Name:      model.Name,
		Phone:     model.Phone,
		PushToken: model.PushToken,
		Rank:      model.Rank,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToContactResponses преобразует слайс контактов в слайс DTO
func ModelsToContactResponses(contacts []*models.EmergencyContact) []*ContactResponse {
	responses := make([]*ContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = ModelToContactResponse(contact)
	}
	return responses
}

// ModelToSettingsResponse преобразует настройки в DTO для ответа
func ModelToSettingsResponse(model *models.UserSettings) *SettingsResponse {
	return &SettingsResponse{
		UserID:              string(model.UserID),
		AutoNotifyAuthority: model.AutoNotifyAuthority,
		ShareLiveLocation:   model.ShareLiveLocation,
		NearbyAlerts:        model.NearbyAlerts,
		UpdatedAt:           model.UpdatedAt,
	}
}
