// Package vault carries one method per exposed tool, coordinating the
// resolver, mapping assembler and reconstructor over the shared API client.
package vault

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/internal/mapping"
	"github.com/vaultforge/bevault-mcp/internal/refs"
	"github.com/vaultforge/bevault-mcp/internal/resolver"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// Service is the tool-facing facade.
type Service struct {
	api    *bevault.Client
	res    *resolver.Resolver
	asm    *mapping.Assembler
	rec    *mapping.Reconstructor
	logger *log.Logger
}

// NewService wires the service over one API client.
func NewService(api *bevault.Client, logger *log.Logger) *Service {
	res := resolver.New(api, logger)
	return &Service{
		api:    api,
		res:    res,
		asm:    mapping.NewAssembler(api, res, logger),
		rec:    mapping.NewReconstructor(api.Model, logger),
		logger: logger,
	}
}

// hubRef builds a fully-qualified hub reference for write payloads.
func (s *Service) hubRef(projectID, hubIDOrName string) string {
	return refs.Hub(s.api.BaseURL(), projectID, hubIDOrName)
}

// GetProjects lists all projects.
func (s *Service) GetProjects(ctx context.Context) ([]types.Project, error) {
	return s.api.Projects.List(ctx)
}

// SearchModel finds model entities by name fragment.
func (s *Service) SearchModel(ctx context.Context, project, term string) ([]types.ModelEntity, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return nil, err
	}
	return s.api.Model.Search(ctx, projectID, term)
}

// GetSnapshots lists the project's snapshots.
func (s *Service) GetSnapshots(ctx context.Context, project string) ([]types.Snapshot, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return nil, err
	}
	return s.api.Model.Snapshots(ctx, projectID)
}
