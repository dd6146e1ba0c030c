package tripbuilder

import (
	"context"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/internal/adminapi"
	"github.com/OldiBike/mototrip-planner-sub000/pkg/valueobjects"
	"github.com/OldiBike/mototrip-planner-sub000/types"
)

// Pricing holds the per-room figures of the what-if simulation. Costs and
// sale prices come from the days response; the per-person price is edited
// locally and is the only figure written back.
type Pricing struct {
	CostDoubleRoom     float64
	CostSoloRoom       float64
	SaleDoubleRoom     float64
	SaleSoloRoom       float64
	SalePricePerPerson float64
}

// SimulationInput is the occupancy entered by the user.
type SimulationInput struct {
	NbDouble int `form:"nbDouble" binding:"min=0"`
	NbSolo   int `form:"nbSolo" binding:"min=0"`
}

type SimulationResult struct {
	Input         SimulationInput
	TotalCost     float64
	TotalSale     float64
	Margin        float64
	MarginPercent float64
	ShowSolo      bool
}

// Simulate projects totals for an occupancy. It never talks to the backend.
func Simulate(p Pricing, in SimulationInput) SimulationResult {
	nbDouble := float64(in.NbDouble)
	nbSolo := float64(in.NbSolo)

	totalCost := nbDouble*p.CostDoubleRoom + nbSolo*p.CostSoloRoom
	totalSale := nbDouble*p.SaleDoubleRoom + nbSolo*p.SaleSoloRoom
	margin := totalSale - totalCost
	marginPercent := 0.0
	if totalSale > 0 {
		marginPercent = margin / totalSale * 100
	}

	return SimulationResult{
		Input:         in,
		TotalCost:     totalCost,
		TotalSale:     totalSale,
		Margin:        margin,
		MarginPercent: marginPercent,
		ShowSolo:      in.NbSolo > 0,
	}
}

// SimulationDisplay is a result formatted for the pricing cards.
type SimulationDisplay struct {
	TotalCost     string
	TotalSale     string
	Margin        string
	MarginPercent string
	Negative      bool
	ShowSolo      bool
}

func (r SimulationResult) Display() SimulationDisplay {
	margin := valueobjects.EuroFromFloat(r.Margin)
	return SimulationDisplay{
		TotalCost:     valueobjects.EuroFromFloat(r.TotalCost).String(),
		TotalSale:     valueobjects.EuroFromFloat(r.TotalSale).String(),
		Margin:        margin.String(),
		MarginPercent: valueobjects.FormatPercent(r.MarginPercent),
		Negative:      margin.IsNegative(),
		ShowSolo:      r.ShowSolo,
	}
}

func (s *Session) Pricing() Pricing {
	return s.pricing
}

// Simulate runs the simulation on the session pricing and remembers the
// occupancy for later recomputes.
func (s *Session) Simulate(in SimulationInput) (SimulationResult, error) {
	if err := s.guard("simulate pricing", StateReady, StateDayModalOpen, StateGalleryOpen); err != nil {
		return SimulationResult{}, err
	}
	if in.NbDouble < 0 || in.NbSolo < 0 {
		return SimulationResult{}, apperrors.ValidationFailed("Le nombre de chambres ne peut pas être négatif", "")
	}
	s.lastSimulation = in
	return Simulate(s.pricing, in), nil
}

// LastSimulation recomputes the last entered occupancy.
func (s *Session) LastSimulation() SimulationResult {
	return Simulate(s.pricing, s.lastSimulation)
}

// SetSalePricePerPerson updates the local per-person price. A double room
// sells two persons; the solo room sale price is left as served.
func (s *Session) SetSalePricePerPerson(price float64) (SimulationResult, error) {
	if err := s.guard("edit the sale price", StateReady); err != nil {
		return SimulationResult{}, err
	}
	if price < 0 {
		return SimulationResult{}, apperrors.ValidationFailed("Le prix de vente ne peut pas être négatif", "")
	}
	s.pricing.SalePricePerPerson = price
	s.pricing.SaleDoubleRoom = price * 2
	return s.LastSimulation(), nil
}

// SaveSalePricePerPerson pushes the per-person price to the trip and
// re-fetches it.
func (s *Session) SaveSalePricePerPerson(ctx context.Context) error {
	if err := s.guard("save the sale price", StateReady); err != nil {
		return err
	}
	price := s.pricing.SalePricePerPerson
	if err := adminapi.UpdateTrip(ctx, s.client, s.tripID, types.TripUpdate{SalePricePerPerson: &price}); err != nil {
		return err
	}
	return s.reloadTrip(ctx)
}
