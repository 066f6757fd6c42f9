package vault

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// SearchInformationMarts lists marts, optionally filtered by name fragment.
func (s *Service) SearchInformationMarts(ctx context.Context, project, nameContains string) ([]types.InformationMart, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return nil, err
	}
	return s.api.InformationMarts.Search(ctx, projectID, nameContains)
}

// CreateInformationMart creates a mart over a snapshot named by id or name.
func (s *Service) CreateInformationMart(ctx context.Context, in types.CreateInformationMartInput) (types.InformationMart, error) {
	if strings.TrimSpace(in.Name) == "" {
		return types.InformationMart{}, errors.New("information mart name is required")
	}
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.InformationMart{}, err
	}
	snapshotID, err := s.res.SnapshotID(ctx, projectID, in.Snapshot)
	if err != nil {
		return types.InformationMart{}, err
	}
	return s.api.InformationMarts.Create(ctx, projectID, bevault.CreateInformationMartRequest{
		Name:        in.Name,
		SnapshotID:  snapshotID,
		Description: in.Description,
	})
}

// UpdateInformationMartScriptCode replaces one script's code, keeping the
// rest of the script record.
func (s *Service) UpdateInformationMartScriptCode(ctx context.Context, in types.UpdateScriptCodeInput) (types.InformationMartScript, error) {
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.InformationMartScript{}, err
	}
	martID, err := s.res.InformationMartID(ctx, projectID, in.InformationMart)
	if err != nil {
		return types.InformationMartScript{}, err
	}
	mart, err := s.api.InformationMarts.Get(ctx, projectID, martID)
	if err != nil {
		return types.InformationMartScript{}, err
	}
	scriptID, err := s.res.ScriptID(mart, in.Script)
	if err != nil {
		return types.InformationMartScript{}, err
	}

	var current *types.InformationMartScript
	for i := range mart.Scripts {
		if mart.Scripts[i].ID == scriptID {
			current = &mart.Scripts[i]
			break
		}
	}
	if current == nil {
		return types.InformationMartScript{}, errors.New("script not present in information mart")
	}
	return s.api.InformationMarts.UpdateScript(ctx, projectID, martID, scriptID, bevault.UpdateScriptRequest{
		Name: current.Name,
		Code: in.Code,
	})
}

// DeleteInformationMartScript removes one script from a mart.
func (s *Service) DeleteInformationMartScript(ctx context.Context, project, informationMart, script string) error {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return err
	}
	martID, err := s.res.InformationMartID(ctx, projectID, informationMart)
	if err != nil {
		return err
	}
	mart, err := s.api.InformationMarts.Get(ctx, projectID, martID)
	if err != nil {
		return err
	}
	scriptID, err := s.res.ScriptID(mart, script)
	if err != nil {
		return err
	}
	return s.api.InformationMarts.DeleteScript(ctx, projectID, martID, scriptID)
}
