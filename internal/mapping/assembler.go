package mapping

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/internal/refs"
	"github.com/vaultforge/bevault-mcp/internal/resolver"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// Assembler turns column-name-level mapping requests into the service's
// reference-based payloads, and derives deletion paths. Stateless: every
// call re-fetches what it needs.
type Assembler struct {
	api    *bevault.Client
	res    *resolver.Resolver
	logger *log.Logger
}

// NewAssembler builds an assembler over the shared client and resolver.
func NewAssembler(api *bevault.Client, res *resolver.Resolver, logger *log.Logger) *Assembler {
	return &Assembler{api: api, res: res, logger: logger}
}

// TableRef is a fully-resolved staging-table containment chain.
type TableRef struct {
	ProjectID      string
	SourceSystemID string
	DataPackageID  string
	TableID        string
}

// ResolveTableScope resolves the project / source system / data package /
// staging table chain. Resolution is chained: each step needs the previous
// step's id.
func (a *Assembler) ResolveTableScope(ctx context.Context, scope types.TableScope) (TableRef, error) {
	projectID, err := a.res.ProjectID(ctx, scope.Project)
	if err != nil {
		return TableRef{}, err
	}
	sourceSystemID, err := a.res.SourceSystemID(ctx, projectID, scope.SourceSystem)
	if err != nil {
		return TableRef{}, err
	}
	dataPackageID, err := a.res.DataPackageID(ctx, projectID, sourceSystemID, scope.DataPackage)
	if err != nil {
		return TableRef{}, err
	}
	tableID, err := a.res.StagingTableID(ctx, projectID, sourceSystemID, dataPackageID, scope.StagingTable)
	if err != nil {
		return TableRef{}, err
	}
	return TableRef{
		ProjectID:      projectID,
		SourceSystemID: sourceSystemID,
		DataPackageID:  dataPackageID,
		TableID:        tableID,
	}, nil
}

func (a *Assembler) tableURL(ref TableRef) string {
	return refs.StagingTable(a.api.BaseURL(), ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
}

func (a *Assembler) columnURL(ref TableRef, columnIDOrName string) string {
	return refs.StagingColumn(a.api.BaseURL(), ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, columnIDOrName)
}

// MapColumnToHub creates a hub mapping. The hub and column identifiers are
// passed through unresolved; the service accepts name or id for both.
func (a *Assembler) MapColumnToHub(ctx context.Context, in types.MapColumnToHubInput) (json.RawMessage, error) {
	if strings.TrimSpace(in.Hub) == "" || strings.TrimSpace(in.Column) == "" {
		return nil, fmt.Errorf("hub and column are required")
	}
	ref, err := a.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return nil, err
	}

	payload := bevault.HubMappingPayload{
		Hub:                   refs.Hub(a.api.BaseURL(), ref.ProjectID, in.Hub),
		IsFullLoad:            in.IsFullLoad,
		ExpectNullBusinessKey: in.ExpectNullBusinessKey,
		DataPackageTable:      a.tableURL(ref),
		DataPackageColumn:     a.columnURL(ref, in.Column),
	}
	return a.api.Mappings.CreateHubMapping(ctx, ref.ProjectID, payload)
}

// MapColumnsToLink creates a link mapping. Every hub reference of the link
// must be covered; dependent-child and data columns are each all-or-nothing
// when supplied.
func (a *Assembler) MapColumnsToLink(ctx context.Context, in types.MapColumnsToLinkInput) (json.RawMessage, error) {
	if len(in.HubReferences) == 0 {
		return nil, fmt.Errorf("at least one hub reference is required")
	}
	ref, err := a.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return nil, err
	}

	link, err := a.api.Model.Link(ctx, ref.ProjectID, in.Link)
	if err != nil {
		if bevault.IsNotFound(err) {
			return nil, &resolver.NotFoundError{Kind: "link", Value: in.Link, Scope: "project " + ref.ProjectID}
		}
		return nil, err
	}

	raws, err := a.api.SourceSystems.TableMappings(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
	if err != nil {
		return nil, err
	}
	set := newMappingSet(raws, a.logger)
	hubByID, hubByName := set.hubIndex()

	details, err := a.resolveHubReferences(ref.ProjectID, link, in.HubReferences, hubByID, hubByName)
	if err != nil {
		return nil, err
	}
	if len(details) != len(link.HubReferences) {
		return nil, fmt.Errorf("link %q has %d hub references but %d were mapped; every hub reference must be covered",
			link.Name, len(link.HubReferences), len(details))
	}

	var depDetails []bevault.LinkColumnDetail
	if len(in.DependentChildColumns) > 0 {
		depDetails, err = a.resolveLinkColumns(ref, in.DependentChildColumns, dependentChildCatalogue(link), "dependent child column")
		if err != nil {
			return nil, err
		}
		if len(depDetails) != len(link.DependentChildColumns) {
			return nil, fmt.Errorf("link %q has %d dependent child columns but %d were mapped",
				link.Name, len(link.DependentChildColumns), len(depDetails))
		}
	}

	var dataDetails []bevault.LinkColumnDetail
	if len(in.DataColumns) > 0 {
		dataDetails, err = a.resolveLinkColumns(ref, in.DataColumns, dataColumnCatalogue(link), "data column")
		if err != nil {
			return nil, err
		}
		if len(dataDetails) != len(link.DataColumns) {
			return nil, fmt.Errorf("link %q has %d data columns but %d were mapped",
				link.Name, len(link.DataColumns), len(dataDetails))
		}
	}

	isFullLoad := true
	if in.IsFullLoad != nil {
		isFullLoad = *in.IsFullLoad
	}

	payload := bevault.LinkMappingPayload{
		Link:                             refs.Link(a.api.BaseURL(), ref.ProjectID, link.ID),
		IsFullLoad:                       isFullLoad,
		DataPackageTable:                 a.tableURL(ref),
		HubReferencesDetails:             details,
		LinkMappingDependentChildColumns: depDetails,
		LinkMappingDataColumns:           dataDetails,
	}
	return a.api.Mappings.CreateLinkMapping(ctx, ref.ProjectID, payload)
}

func (a *Assembler) resolveHubReferences(projectID string, link types.Link, pairs []types.HubReferencePair, hubByID, hubByName map[string]*types.HubMapping) ([]bevault.HubReferenceDetail, error) {
	details := make([]bevault.HubReferenceDetail, 0, len(pairs))
	for _, pair := range pairs {
		if strings.TrimSpace(pair.HubMapping) == "" || strings.TrimSpace(pair.HubReference) == "" {
			return nil, fmt.Errorf("hub reference entries require hubMapping and hubReference")
		}

		hm, ok := hubByID[pair.HubMapping]
		if !ok {
			hm, ok = hubByName[pair.HubMapping]
		}
		if !ok {
			return nil, &resolver.NotFoundError{
				Kind:  "hub mapping",
				Value: pair.HubMapping,
				Scope: "staging table mappings (map the hub before the link that references it)",
			}
		}

		var hubRef *types.HubReference
		for i := range link.HubReferences {
			hr := &link.HubReferences[i]
			if hr.ID == pair.HubReference || hr.ColumnName == pair.HubReference {
				hubRef = hr
				break
			}
		}
		if hubRef == nil {
			return nil, &resolver.NotFoundError{Kind: "hub reference", Value: pair.HubReference, Scope: "link " + link.Name}
		}

		details = append(details, bevault.HubReferenceDetail{
			HubMapping:   refs.HubMapping(a.api.BaseURL(), projectID, hm.ID),
			HubReference: refs.LinkHubReference(a.api.BaseURL(), projectID, link.ID, hubRef.ID),
		})
	}
	return details, nil
}

type linkColumn struct {
	ID   string
	Name string
}

func dependentChildCatalogue(link types.Link) []linkColumn {
	cols := make([]linkColumn, 0, len(link.DependentChildColumns))
	for _, c := range link.DependentChildColumns {
		cols = append(cols, linkColumn{ID: c.ID, Name: c.ColumnName})
	}
	return cols
}

func dataColumnCatalogue(link types.Link) []linkColumn {
	cols := make([]linkColumn, 0, len(link.DataColumns))
	for _, c := range link.DataColumns {
		cols = append(cols, linkColumn{ID: c.ID, Name: c.ColumnName})
	}
	return cols
}

func (a *Assembler) resolveLinkColumns(ref TableRef, pairs []types.LinkColumnPair, catalogue []linkColumn, kind string) ([]bevault.LinkColumnDetail, error) {
	details := make([]bevault.LinkColumnDetail, 0, len(pairs))
	for _, pair := range pairs {
		if strings.TrimSpace(pair.LinkColumn) == "" || strings.TrimSpace(pair.StagingColumn) == "" {
			return nil, fmt.Errorf("%s entries require linkColumn and stagingColumn", kind)
		}
		var match *linkColumn
		for i := range catalogue {
			c := &catalogue[i]
			if c.ID == pair.LinkColumn || c.Name == pair.LinkColumn {
				match = c
				break
			}
		}
		if match == nil {
			return nil, &resolver.NotFoundError{Kind: kind, Value: pair.LinkColumn, Scope: "link catalogue"}
		}
		details = append(details, bevault.LinkColumnDetail{
			LinkColumnID:           match.ID,
			DataPackageTableColumn: a.columnURL(ref, pair.StagingColumn),
		})
	}
	return details, nil
}

// parentKindFor maps a caller-facing parent type to the endpoint segment.
func parentKindFor(parentType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(parentType)) {
	case "hub":
		return bevault.ParentKindHubs, nil
	case "link":
		return bevault.ParentKindLinks, nil
	default:
		return "", fmt.Errorf("invalid parent type %q (expected hub or link)", parentType)
	}
}

// MapColumnsToSatellite creates a satellite mapping under an existing hub or
// link mapping.
func (a *Assembler) MapColumnsToSatellite(ctx context.Context, in types.MapColumnsToSatelliteInput) (json.RawMessage, error) {
	parentKind, err := parentKindFor(in.ParentType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.SatelliteName) == "" {
		return nil, fmt.Errorf("satellite name is required")
	}
	if len(in.Columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}

	ref, err := a.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return nil, err
	}

	parentMappingID := in.ParentMapping
	if !types.IsCanonicalID(parentMappingID) {
		raws, err := a.api.SourceSystems.TableMappings(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
		if err != nil {
			return nil, err
		}
		set := newMappingSet(raws, a.logger)
		wantType := types.MappingTypeHub
		if parentKind == bevault.ParentKindLinks {
			wantType = types.MappingTypeLink
		}
		entry, ok := set.findTyped(in.ParentMapping, wantType)
		if !ok {
			return nil, &resolver.NotFoundError{Kind: "parent mapping", Value: in.ParentMapping, Scope: "staging table mappings"}
		}
		parentMappingID = entry.base.ID
	}

	payload := a.satellitePayload(ref, in.SatelliteName, in.Columns, in.IsMultiActive, in.SubSequenceColumn)
	return a.api.Mappings.CreateSatelliteMapping(ctx, ref.ProjectID, parentKind, parentMappingID, payload)
}

func (a *Assembler) satellitePayload(ref TableRef, name string, columns []string, isMultiActive bool, subSequenceColumn string) bevault.SatelliteMappingPayload {
	columnURLs := make([]string, 0, len(columns))
	for _, col := range columns {
		columnURLs = append(columnURLs, a.columnURL(ref, col))
	}
	payload := bevault.SatelliteMappingPayload{
		SatelliteColumns: columnURLs,
		SatelliteName:    name,
		StagingTable:     a.tableURL(ref),
		IsMultiActive:    isMultiActive,
	}
	if subSequenceColumn != "" {
		payload.SubSequenceColumn = a.columnURL(ref, subSequenceColumn)
	}
	return payload
}

// UpdateSatelliteMapping rewrites a satellite mapping. The parent type is
// not supplied by the caller; it is derived by locating the satellite entry
// and then its recorded parent within the same mapping list.
func (a *Assembler) UpdateSatelliteMapping(ctx context.Context, in types.UpdateSatelliteMappingInput) (json.RawMessage, error) {
	if len(in.Columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	ref, err := a.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return nil, err
	}

	raws, err := a.api.SourceSystems.TableMappings(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
	if err != nil {
		return nil, err
	}
	set := newMappingSet(raws, a.logger)

	entry, ok := set.findTyped(in.Mapping, types.MappingTypeSatellite)
	if !ok {
		return nil, &resolver.NotFoundError{Kind: "satellite mapping", Value: in.Mapping, Scope: "staging table mappings"}
	}
	sat, ok := entry.m.(*types.SatelliteMapping)
	if !ok {
		return nil, fmt.Errorf("mapping %q did not decode as a satellite mapping", entry.base.ID)
	}

	parent, ok := set.findByID(sat.SatelliteParentMappingID)
	if !ok {
		return nil, &resolver.NotFoundError{Kind: "parent mapping", Value: sat.SatelliteParentMappingID, Scope: "staging table mappings"}
	}
	parentKind, err := parentKindForMappingType(parent.base.MappingType)
	if err != nil {
		return nil, err
	}

	name := in.SatelliteName
	if strings.TrimSpace(name) == "" {
		name = entry.base.Name
	}
	payload := a.satellitePayload(ref, name, in.Columns, in.IsMultiActive, in.SubSequenceColumn)
	return a.api.Mappings.UpdateSatelliteMapping(ctx, ref.ProjectID, parentKind, parent.base.ID, entry.base.ID, payload)
}

func parentKindForMappingType(mappingType string) (string, error) {
	switch mappingType {
	case types.MappingTypeHub:
		return bevault.ParentKindHubs, nil
	case types.MappingTypeLink:
		return bevault.ParentKindLinks, nil
	default:
		return "", &types.UnknownMappingTypeError{MappingType: mappingType}
	}
}

// DeleteMapping removes one mapping, deriving the type-specific deletion
// path. A satellite's own record cannot address its deletion endpoint; its
// parent mapping supplies the concrete hub or link id.
func (a *Assembler) DeleteMapping(ctx context.Context, in types.DeleteMappingInput) error {
	ref, err := a.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return err
	}

	raws, err := a.api.SourceSystems.TableMappings(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
	if err != nil {
		return err
	}
	set := newMappingSet(raws, a.logger)

	entry, ok := set.find(in.Mapping)
	if !ok {
		return &resolver.NotFoundError{Kind: "mapping", Value: in.Mapping, Scope: "staging table mappings"}
	}

	switch entry.base.MappingType {
	case types.MappingTypeHub:
		return a.api.Mappings.DeleteHubMapping(ctx, ref.ProjectID, entry.base.ID)
	case types.MappingTypeLink:
		return a.api.Mappings.DeleteLinkMapping(ctx, ref.ProjectID, entry.base.ID)
	case types.MappingTypeSatellite:
		sat, ok := entry.m.(*types.SatelliteMapping)
		if !ok {
			return fmt.Errorf("mapping %q did not decode as a satellite mapping", entry.base.ID)
		}
		parent, ok := set.findByID(sat.SatelliteParentMappingID)
		if !ok {
			return &resolver.NotFoundError{Kind: "parent mapping", Value: sat.SatelliteParentMappingID, Scope: "staging table mappings"}
		}
		switch pm := parent.m.(type) {
		case *types.HubMapping:
			return a.api.Mappings.DeleteSatelliteMapping(ctx, ref.ProjectID, bevault.ParentKindHubs, pm.HubID, entry.base.ID)
		case *types.LinkMapping:
			return a.api.Mappings.DeleteSatelliteMapping(ctx, ref.ProjectID, bevault.ParentKindLinks, pm.LinkID, entry.base.ID)
		default:
			return &types.UnknownMappingTypeError{MappingType: parent.base.MappingType}
		}
	default:
		return &types.UnknownMappingTypeError{MappingType: entry.base.MappingType}
	}
}
