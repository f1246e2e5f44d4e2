package service

import (
	"errors"

	"jewel-backoffice-be/internal/dto"
)

type IPricingService interface {
	Compute(req *dto.PricingRequest) (*dto.PricingResponse, error)
}

type pricingService struct {
	defaultMarginPercent float64
}

func NewPricingService(defaultMarginPercent float64) IPricingService {
	return &pricingService{defaultMarginPercent: defaultMarginPercent}
}

// Compute rebuilds a retail price from the bill of materials. Wastage is
// the metal lost between gross and net weight, billed at the metal rate.
func (s *pricingService) Compute(req *dto.PricingRequest) (*dto.PricingResponse, error) {
	if req.NetWeightG > req.GrossWeightG {
		return nil, errors.New("net weight cannot exceed gross weight")
	}

	margin := req.MarginPercent
	if margin == 0 {
		margin = s.defaultMarginPercent
	}

	metalValue := round2(req.NetWeightG * req.MetalRatePerG)
	makingValue := round2(req.NetWeightG*req.MakingPerG + req.MakingFlat)
	wastageCost := round2((req.GrossWeightG - req.NetWeightG) * req.MetalRatePerG)
	stoneValue := round2(req.StoneCarat * req.StonePerCarat)

	finalCost := round2(metalValue + makingValue + wastageCost + stoneValue)
	retail := round2(finalCost * (1 + margin/100))

	return &dto.PricingResponse{
		MetalValue:  metalValue,
		MakingValue: makingValue,
		WastageCost: wastageCost,
		StoneValue:  stoneValue,
		FinalCost:   finalCost,
		RetailPrice: retail,
	}, nil
}
