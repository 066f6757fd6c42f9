package vault

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// CreateSourceSystem creates a source system.
func (s *Service) CreateSourceSystem(ctx context.Context, in types.CreateSourceSystemInput) (types.SourceSystem, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Code) == "" {
		return types.SourceSystem{}, errors.New("source system name and code are required")
	}
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.SourceSystem{}, err
	}
	req := bevault.CreateSourceSystemRequest{
		Name:                in.Name,
		Code:                in.Code,
		Version:             in.Version,
		QualityType:         in.QualityType,
		DataSteward:         in.DataSteward,
		SystemAdministrator: in.SystemAdministrator,
	}
	if in.Description != "" {
		req.Descriptions = []string{in.Description}
	}
	return s.api.SourceSystems.Create(ctx, projectID, req)
}

// SearchSourceSystems lists source systems, optionally filtered by name
// fragment client-side.
func (s *Service) SearchSourceSystems(ctx context.Context, project, nameContains string) ([]types.SourceSystem, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return nil, err
	}
	systems, err := s.api.SourceSystems.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if nameContains == "" {
		return systems, nil
	}
	needle := strings.ToLower(nameContains)
	out := make([]types.SourceSystem, 0, len(systems))
	for _, sys := range systems {
		if strings.Contains(strings.ToLower(sys.Name), needle) {
			out = append(out, sys)
		}
	}
	return out, nil
}

// UpdateSourceSystem rewrites a source system, keeping unspecified fields.
func (s *Service) UpdateSourceSystem(ctx context.Context, in types.CreateSourceSystemInput, sourceSystem string) (types.SourceSystem, error) {
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.SourceSystem{}, err
	}
	current, err := s.api.SourceSystems.Get(ctx, projectID, sourceSystem)
	if err != nil {
		return types.SourceSystem{}, err
	}
	req := bevault.CreateSourceSystemRequest{
		Name:                orDefault(in.Name, current.Name),
		Code:                orDefault(in.Code, current.Code),
		Version:             orDefault(in.Version, current.Version),
		QualityType:         orDefault(in.QualityType, current.QualityType),
		DataSteward:         orDefault(in.DataSteward, current.DataSteward),
		SystemAdministrator: orDefault(in.SystemAdministrator, current.SystemAdministrator),
	}
	if in.Description != "" {
		req.Descriptions = []string{in.Description}
	}
	return s.api.SourceSystems.Update(ctx, projectID, current.ID, req)
}

// DeleteSourceSystem removes a source system.
func (s *Service) DeleteSourceSystem(ctx context.Context, project, sourceSystem string) error {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return err
	}
	sourceSystemID, err := s.res.SourceSystemID(ctx, projectID, sourceSystem)
	if err != nil {
		return err
	}
	return s.api.SourceSystems.Delete(ctx, projectID, sourceSystemID)
}

// CreateDataPackage creates a data package in a source system.
func (s *Service) CreateDataPackage(ctx context.Context, in types.CreateDataPackageInput) (types.DataPackage, error) {
	if strings.TrimSpace(in.Name) == "" {
		return types.DataPackage{}, errors.New("data package name is required")
	}
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.DataPackage{}, err
	}
	sourceSystemID, err := s.res.SourceSystemID(ctx, projectID, in.SourceSystem)
	if err != nil {
		return types.DataPackage{}, err
	}
	return s.api.SourceSystems.CreateDataPackage(ctx, projectID, sourceSystemID, bevault.CreateDataPackageRequest{
		Name:             in.Name,
		DeliverySchedule: in.DeliverySchedule,
	})
}

// UpdateDataPackage rewrites a data package.
func (s *Service) UpdateDataPackage(ctx context.Context, in types.CreateDataPackageInput, dataPackage string) (types.DataPackage, error) {
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.DataPackage{}, err
	}
	sourceSystemID, err := s.res.SourceSystemID(ctx, projectID, in.SourceSystem)
	if err != nil {
		return types.DataPackage{}, err
	}
	current, err := s.api.SourceSystems.DataPackage(ctx, projectID, sourceSystemID, dataPackage)
	if err != nil {
		return types.DataPackage{}, err
	}
	return s.api.SourceSystems.UpdateDataPackage(ctx, projectID, sourceSystemID, current.ID, bevault.CreateDataPackageRequest{
		Name:             orDefault(in.Name, current.Name),
		DeliverySchedule: orDefault(in.DeliverySchedule, current.DeliverySchedule),
	})
}

// DeleteDataPackage removes a data package.
func (s *Service) DeleteDataPackage(ctx context.Context, project, sourceSystem, dataPackage string) error {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return err
	}
	sourceSystemID, err := s.res.SourceSystemID(ctx, projectID, sourceSystem)
	if err != nil {
		return err
	}
	dataPackageID, err := s.res.DataPackageID(ctx, projectID, sourceSystemID, dataPackage)
	if err != nil {
		return err
	}
	return s.api.SourceSystems.DeleteDataPackage(ctx, projectID, sourceSystemID, dataPackageID)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
