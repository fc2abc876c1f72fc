package http

import (
	"context"

	"techkpi/internal/kpi"
	"techkpi/internal/services"
	"techkpi/pkg/contracts/domain"
)

// KPIServiceInterface defines the KPI operations the handler depends on
type KPIServiceInterface interface {
	Process(ctx context.Context, req services.ProcessRequest) (*kpi.Result, error)
	ResolveRange(rng domain.DateRange) domain.DateRange
	Current() (*kpi.Result, error)
	Technician(name string) (kpi.TechnicianKPIs, error)
}

var _ KPIServiceInterface = (*services.KPIService)(nil)
