package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/repo"
)

// ItineraryRow is a single row in a trip's itinerary export: one row per
// event, with day fields repeated for every event on that day. Days with no
// events yield one row with zero values for all event fields.
type ItineraryRow struct {
	Date      string `json:"date"` // "2006-01-02"
	Position  int    `json:"position,omitempty"`
	Type      string `json:"type,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	Duration  int    `json:"duration_minutes,omitempty"`
	PlaceName string `json:"place_name,omitempty"`
	Address   string `json:"address,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ExportService produces a flat, denormalized view of a trip's itinerary
// for CSV/JSON export.
type ExportService struct {
	tx repo.Transactor
}

// NewExportService constructs an ExportService backed by the provided Transactor.
func NewExportService(tx repo.Transactor) *ExportService {
	return &ExportService{tx: tx}
}

// Export returns every (day, event) combination for the trip, days in date
// order and events in position order. The read runs in one transaction so
// the export is a consistent snapshot.
func (s *ExportService) Export(ctx context.Context, userID, tripID uuid.UUID) ([]ItineraryRow, error) {
	var rows []ItineraryRow
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		days, err := r.Days.ListByTrip(ctx, tripID)
		if err != nil {
			return err
		}

		for _, day := range days {
			events, err := r.Events.ListByDay(ctx, day.ID)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				rows = append(rows, ItineraryRow{Date: day.Date.Format("2006-01-02")})
				continue
			}
			for _, e := range events {
				row := ItineraryRow{
					Date:  day.Date.Format("2006-01-02"),
					Type:  string(e.Type),
					Notes: e.Notes,
				}
				if e.Position != nil {
					row.Position = *e.Position
				}
				if e.StartTime != nil {
					row.StartTime = *e.StartTime
				}
				if e.DurationMinutes != nil {
					row.Duration = *e.DurationMinutes
				}
				if e.Place != nil {
					row.PlaceName = e.Place.Name
					row.Address = e.Place.Address
				}
				rows = append(rows, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if rows == nil {
		rows = []ItineraryRow{}
	}
	return rows, nil
}
