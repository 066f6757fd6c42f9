package mapping

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// The business key's storage column is always named "bk" downstream.
const businessKeyColumnName = "bk"

// LinkFetcher retrieves link entities for reconstruction. Fetch failures are
// soft: reconstruction degrades to raw ids instead of failing.
type LinkFetcher interface {
	Link(ctx context.Context, projectID, idOrName string) (types.Link, error)
}

// Reconstructor rebuilds readable, denormalized mapping views from raw
// mapping records plus the staging table's column catalogue.
type Reconstructor struct {
	links  LinkFetcher
	logger *log.Logger
}

// NewReconstructor builds a reconstructor.
func NewReconstructor(links LinkFetcher, logger *log.Logger) *Reconstructor {
	return &Reconstructor{links: links, logger: logger}
}

// linkCatalogue holds id-to-name lookups for one link's columns.
type linkCatalogue struct {
	hubRefs     map[string]string
	depChildren map[string]string
	dataColumns map[string]string
}

// Format produces one FormattedMapping per raw record, in listing order.
// Unknown mapping types yield a tuple-less record rather than an error.
// Link entities are fetched lazily and cached for this pass only.
func (r *Reconstructor) Format(ctx context.Context, projectID string, columns []types.StagingColumn, raws []json.RawMessage) []types.FormattedMapping {
	colByID := make(map[string]string, len(columns))
	for _, c := range columns {
		colByID[c.ID] = c.Name
	}

	set := newMappingSet(raws, r.logger)
	hubByID, _ := set.hubIndex()
	linkCache := make(map[string]linkCatalogue)

	out := make([]types.FormattedMapping, 0, len(set.entries))
	for _, e := range set.entries {
		fm := types.FormattedMapping{
			ID:             e.base.ID,
			Name:           e.base.Name,
			ParentName:     e.base.ParentName,
			MappingType:    e.base.MappingType,
			ColumnMappings: []types.ColumnMapping{},
		}

		switch m := e.m.(type) {
		case *types.HubMapping:
			isFullLoad := m.IsFullLoad
			fm.IsFullLoad = &isFullLoad
			if m.BusinessKeyMapping != nil {
				fm.ColumnMappings = append(fm.ColumnMappings, types.ColumnMapping{
					SourceColumnName:      nameOrID(colByID, m.BusinessKeyMapping.ColumnID),
					DestinationID:         m.BusinessKeyMapping.BusinessKeyID,
					DestinationType:       types.DestinationBusinessKey,
					DestinationColumnName: businessKeyColumnName,
				})
			}
		case *types.LinkMapping:
			isFullLoad := m.IsFullLoad
			fm.IsFullLoad = &isFullLoad
			cat := r.linkCatalogue(ctx, linkCache, projectID, m.LinkID)
			fm.ColumnMappings = append(fm.ColumnMappings, r.linkTuples(m, cat, colByID, hubByID)...)
		case *types.SatelliteMapping:
			for _, scm := range m.SatelliteColumnMappings {
				src := nameOrID(colByID, scm.StagingTableColumnID)
				fm.ColumnMappings = append(fm.ColumnMappings, types.ColumnMapping{
					SourceColumnName:      src,
					DestinationID:         scm.SatelliteColumnID,
					DestinationType:       types.DestinationSatelliteColumn,
					DestinationColumnName: src,
				})
			}
		}

		out = append(out, fm)
	}
	return out
}

func (r *Reconstructor) linkTuples(m *types.LinkMapping, cat linkCatalogue, colByID map[string]string, hubByID map[string]*types.HubMapping) []types.ColumnMapping {
	tuples := make([]types.ColumnMapping, 0,
		len(m.HubReferenceColumnMappings)+len(m.DependentChildColumnMappings)+len(m.DataColumnMappings))

	for _, hr := range m.HubReferenceColumnMappings {
		// The source column is the one feeding the referenced hub mapping's
		// business key, found by following mappingId back into the hub index.
		src := hr.MappingID
		if hm, ok := hubByID[hr.MappingID]; ok && hm.BusinessKeyMapping != nil {
			src = nameOrID(colByID, hm.BusinessKeyMapping.ColumnID)
		}
		tuples = append(tuples, types.ColumnMapping{
			SourceColumnName:      src,
			DestinationID:         hr.HubReferenceID,
			DestinationType:       types.DestinationHubReference,
			DestinationColumnName: nameOrID(cat.hubRefs, hr.HubReferenceID),
		})
	}
	for _, dc := range m.DependentChildColumnMappings {
		tuples = append(tuples, types.ColumnMapping{
			SourceColumnName:      nameOrID(colByID, dc.StagingTableColumnID),
			DestinationID:         dc.DependentChildID,
			DestinationType:       types.DestinationDependentChild,
			DestinationColumnName: nameOrID(cat.depChildren, dc.DependentChildID),
		})
	}
	for _, dc := range m.DataColumnMappings {
		tuples = append(tuples, types.ColumnMapping{
			SourceColumnName:      nameOrID(colByID, dc.StagingTableColumnID),
			DestinationID:         dc.DataColumnID,
			DestinationType:       types.DestinationDataColumn,
			DestinationColumnName: nameOrID(cat.dataColumns, dc.DataColumnID),
		})
	}
	return tuples
}

// linkCatalogue fetches and caches one link's catalogues for this pass.
// On fetch failure the catalogue stays empty and lookups fall back to ids.
func (r *Reconstructor) linkCatalogue(ctx context.Context, cache map[string]linkCatalogue, projectID, linkID string) linkCatalogue {
	if cat, ok := cache[linkID]; ok {
		return cat
	}
	cat := linkCatalogue{
		hubRefs:     map[string]string{},
		depChildren: map[string]string{},
		dataColumns: map[string]string{},
	}
	link, err := r.links.Link(ctx, projectID, linkID)
	if err != nil {
		r.logger.Warn("link fetch failed during reconstruction; using raw ids", "link_id", linkID, "error", err)
		cache[linkID] = cat
		return cat
	}
	for _, hr := range link.HubReferences {
		cat.hubRefs[hr.ID] = hr.ColumnName
	}
	for _, c := range link.DependentChildColumns {
		cat.depChildren[c.ID] = c.ColumnName
	}
	for _, c := range link.DataColumns {
		cat.dataColumns[c.ID] = c.ColumnName
	}
	cache[linkID] = cat
	return cat
}

func nameOrID(byID map[string]string, id string) string {
	if name, ok := byID[id]; ok && name != "" {
		return name
	}
	return id
}
