package vault

import (
	"context"
	"errors"
	"strings"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// Default business key length when the caller does not specify one.
const defaultBusinessKeyLength = 255

var validLinkTypes = map[string]bool{
	"Relationship": true,
	"Hierarchy":    true,
	"Transaction":  true,
	"SameAs":       true,
}

// CreateHub creates a hub with a single business key.
func (s *Service) CreateHub(ctx context.Context, in types.CreateHubInput) (types.Hub, error) {
	if strings.TrimSpace(in.Name) == "" {
		return types.Hub{}, errors.New("hub name is required")
	}
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.Hub{}, err
	}
	length := in.BusinessKeyLength
	if length <= 0 {
		length = defaultBusinessKeyLength
	}
	req := bevault.CreateHubRequest{
		Name:                  in.Name,
		IgnoreBusinessKeyCase: in.IgnoreBusinessKeyCase,
		BusinessKey:           &types.BusinessKey{Length: length},
	}
	if in.Description != "" {
		req.Descriptions = []string{in.Description}
	}
	return s.api.Model.CreateHub(ctx, projectID, req)
}

// UpdateHub renames a hub or toggles business-key case handling. Unchanged
// fields keep their current values via fetch-then-put.
func (s *Service) UpdateHub(ctx context.Context, project, hub, newName string, ignoreBusinessKeyCase *bool) (types.Hub, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return types.Hub{}, err
	}
	current, err := s.api.Model.Hub(ctx, projectID, hub)
	if err != nil {
		return types.Hub{}, err
	}
	req := bevault.CreateHubRequest{
		Name:                  current.Name,
		IgnoreBusinessKeyCase: current.IgnoreBusinessKeyCase,
		BusinessKey:           current.BusinessKey,
	}
	if strings.TrimSpace(newName) != "" {
		req.Name = newName
	}
	if ignoreBusinessKeyCase != nil {
		req.IgnoreBusinessKeyCase = *ignoreBusinessKeyCase
	}
	return s.api.Model.UpdateHub(ctx, projectID, current.ID, req)
}

// DeleteHub removes a hub.
func (s *Service) DeleteHub(ctx context.Context, project, hub string) error {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return err
	}
	hubID, err := s.res.HubID(ctx, projectID, hub)
	if err != nil {
		return err
	}
	return s.api.Model.DeleteHub(ctx, projectID, hubID)
}

// CreateLink creates a link; each hub reference names its hub by id or name.
func (s *Service) CreateLink(ctx context.Context, in types.CreateLinkInput) (types.Link, error) {
	if strings.TrimSpace(in.Name) == "" {
		return types.Link{}, errors.New("link name is required")
	}
	if !validLinkTypes[in.LinkType] {
		return types.Link{}, errors.New("linkType must be one of Relationship, Hierarchy, Transaction, SameAs")
	}
	if len(in.HubReferences) < 1 {
		return types.Link{}, errors.New("at least one hub reference is required")
	}
	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.Link{}, err
	}

	hubRefs := make([]bevault.HubReferenceRequest, 0, len(in.HubReferences))
	for i, hr := range in.HubReferences {
		if strings.TrimSpace(hr.ColumnName) == "" || strings.TrimSpace(hr.Hub) == "" {
			return types.Link{}, errors.New("hub references require columnName and hub")
		}
		order := hr.Order
		if order == 0 {
			order = i + 1
		}
		hubRefs = append(hubRefs, bevault.HubReferenceRequest{
			ColumnName: hr.ColumnName,
			Hub:        s.hubRef(projectID, hr.Hub),
			Order:      order,
		})
	}

	req := bevault.CreateLinkRequest{
		Name:          in.Name,
		LinkType:      in.LinkType,
		HubReferences: hubRefs,
	}
	for _, c := range in.DependentChildColumns {
		req.DependentChildColumns = append(req.DependentChildColumns, bevault.DependentChildRequest{
			ColumnName: c.ColumnName,
			DataType:   c.DataType,
		})
	}
	return s.api.Model.CreateLink(ctx, projectID, req)
}

// GetLink returns a link with its column catalogues.
func (s *Service) GetLink(ctx context.Context, project, link string) (types.Link, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return types.Link{}, err
	}
	return s.api.Model.Link(ctx, projectID, link)
}

// UpdateLink renames a link, keeping its structure via fetch-then-put.
func (s *Service) UpdateLink(ctx context.Context, project, link, newName string) (types.Link, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return types.Link{}, err
	}
	current, err := s.api.Model.Link(ctx, projectID, link)
	if err != nil {
		return types.Link{}, err
	}
	req := bevault.CreateLinkRequest{
		Name:     current.Name,
		LinkType: current.LinkType,
	}
	if strings.TrimSpace(newName) != "" {
		req.Name = newName
	}
	for _, hr := range current.HubReferences {
		req.HubReferences = append(req.HubReferences, bevault.HubReferenceRequest{
			ColumnName: hr.ColumnName,
			Hub:        s.hubRef(projectID, hr.HubID),
			Order:      hr.Order,
		})
	}
	for _, c := range current.DependentChildColumns {
		req.DependentChildColumns = append(req.DependentChildColumns, bevault.DependentChildRequest{
			ColumnName: c.ColumnName,
			DataType:   c.DataType,
		})
	}
	return s.api.Model.UpdateLink(ctx, projectID, current.ID, req)
}

// DeleteLink removes a link.
func (s *Service) DeleteLink(ctx context.Context, project, link string) error {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return err
	}
	linkID, err := s.res.LinkID(ctx, projectID, link)
	if err != nil {
		return err
	}
	return s.api.Model.DeleteLink(ctx, projectID, linkID)
}

// GetSatellite returns a satellite scoped to its hub or link parent.
func (s *Service) GetSatellite(ctx context.Context, project, parentType, parent, satellite string) (types.Satellite, error) {
	projectID, err := s.res.ProjectID(ctx, project)
	if err != nil {
		return types.Satellite{}, err
	}
	var parentKind, parentID string
	switch strings.ToLower(strings.TrimSpace(parentType)) {
	case "hub":
		parentKind = bevault.ParentKindHubs
		parentID, err = s.res.HubID(ctx, projectID, parent)
	case "link":
		parentKind = bevault.ParentKindLinks
		parentID, err = s.res.LinkID(ctx, projectID, parent)
	default:
		return types.Satellite{}, errors.New("parentType must be hub or link")
	}
	if err != nil {
		return types.Satellite{}, err
	}
	return s.api.Model.Satellite(ctx, projectID, parentKind, parentID, satellite)
}
