package tripbuilder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_DoubleRoomsOnly(t *testing.T) {
	r := Simulate(Pricing{CostDoubleRoom: 100, SaleDoubleRoom: 150}, SimulationInput{NbDouble: 2, NbSolo: 0})

	assert.Equal(t, 200.0, r.TotalCost)
	assert.Equal(t, 300.0, r.TotalSale)
	assert.Equal(t, 100.0, r.Margin)
	assert.False(t, r.ShowSolo)

	d := r.Display()
	assert.Equal(t, "200 €", d.TotalCost)
	assert.Equal(t, "300 €", d.TotalSale)
	assert.Equal(t, "100 €", d.Margin)
	assert.Equal(t, "33.3%", d.MarginPercent)
	assert.False(t, d.ShowSolo)
	assert.False(t, d.Negative)
}

func TestSimulate_MarginIdentity(t *testing.T) {
	prices := []Pricing{
		{CostDoubleRoom: 100, CostSoloRoom: 80, SaleDoubleRoom: 150, SaleSoloRoom: 110},
		{CostDoubleRoom: 99.99, CostSoloRoom: 0.1, SaleDoubleRoom: 0.2, SaleSoloRoom: 0.3},
		{CostDoubleRoom: 120, CostSoloRoom: 90},
		{},
	}
	for _, p := range prices {
		for nbDouble := 0; nbDouble <= 6; nbDouble++ {
			for nbSolo := 0; nbSolo <= 4; nbSolo++ {
				r := Simulate(p, SimulationInput{NbDouble: nbDouble, NbSolo: nbSolo})
				assert.Equal(t, r.TotalSale-r.TotalCost, r.Margin)
				if r.TotalSale == 0 {
					assert.Equal(t, 0.0, r.MarginPercent)
				} else {
					assert.Equal(t, r.Margin/r.TotalSale*100, r.MarginPercent)
				}
				assert.Equal(t, nbSolo > 0, r.ShowSolo)
			}
		}
	}
}

func TestSimulate_NegativeMargin(t *testing.T) {
	r := Simulate(Pricing{CostDoubleRoom: 120, SaleDoubleRoom: 100}, SimulationInput{NbDouble: 1})
	d := r.Display()
	assert.True(t, d.Negative)
	assert.Equal(t, "-20 €", d.Margin)
	assert.Equal(t, "-20.0%", d.MarginPercent)
}

func TestSession_SalePricePerPerson(t *testing.T) {
	fb := seededBackend()
	s := readySession(t, fb)

	_, err := s.Simulate(SimulationInput{NbDouble: 2, NbSolo: 1})
	require.NoError(t, err)

	r, err := s.SetSalePricePerPerson(80)
	require.NoError(t, err)
	assert.Equal(t, 160.0, s.Pricing().SaleDoubleRoom)
	assert.Equal(t, 110.0, s.Pricing().SaleSoloRoom, "solo sale price is not derived from the per-person price")
	assert.Equal(t, 2*160.0+110.0, r.TotalSale)
	assert.True(t, r.ShowSolo)
	assert.Empty(t, fb.calls(), "local edit only")

	require.NoError(t, s.SaveSalePricePerPerson(context.Background()))
	assert.Equal(t, []string{"PUT /admin/api/trips/t1", "GET /admin/api/trips/t1"}, fb.calls())
	assert.JSONEq(t, `{"salePricePerPerson":80}`, fb.lastBody("PUT", "/admin/api/trips/t1"))
	assert.Equal(t, 80.0, s.Trip().SalePricePerPerson)

	_, err = s.SetSalePricePerPerson(-1)
	assert.Error(t, err)
	_, err = s.Simulate(SimulationInput{NbDouble: -1})
	assert.Error(t, err)
}
