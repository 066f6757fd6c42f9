// Package mapping implements mapping assembly (caller names to reference
// payloads), deletion-path derivation and the inverse reconstruction of
// readable mapping views.
package mapping

import (
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// decodedMapping pairs a raw record's shared fields with its typed variant.
// The variant is nil for unknown mapping types; read paths degrade, write
// paths reject.
type decodedMapping struct {
	base types.MappingBase
	m    types.Mapping
}

// mappingSet is a call-scoped index over one staging table's mapping list.
// Built once per operation, never shared across calls.
type mappingSet struct {
	entries []decodedMapping
}

func newMappingSet(raws []json.RawMessage, logger *log.Logger) *mappingSet {
	s := &mappingSet{entries: make([]decodedMapping, 0, len(raws))}
	for _, raw := range raws {
		base, err := types.PeekMappingBase(raw)
		if err != nil {
			logger.Warn("skipping undecodable mapping record", "error", err)
			continue
		}
		m, err := types.DecodeMapping(raw)
		if err != nil {
			var unknown *types.UnknownMappingTypeError
			if !errors.As(err, &unknown) {
				logger.Warn("mapping record failed variant decode", "id", base.ID, "type", base.MappingType, "error", err)
			}
			s.entries = append(s.entries, decodedMapping{base: base})
			continue
		}
		s.entries = append(s.entries, decodedMapping{base: base, m: m})
	}
	return s
}

// hubIndex builds the by-id and by-name lookup tables over Hub-type mappings.
func (s *mappingSet) hubIndex() (byID, byName map[string]*types.HubMapping) {
	byID = make(map[string]*types.HubMapping)
	byName = make(map[string]*types.HubMapping)
	for _, e := range s.entries {
		hm, ok := e.m.(*types.HubMapping)
		if !ok {
			continue
		}
		byID[hm.ID] = hm
		if hm.Name != "" {
			if _, dup := byName[hm.Name]; !dup {
				byName[hm.Name] = hm
			}
		}
	}
	return byID, byName
}

// find returns the first entry whose id or name matches.
func (s *mappingSet) find(idOrName string) (decodedMapping, bool) {
	for _, e := range s.entries {
		if e.base.ID == idOrName || e.base.Name == idOrName {
			return e, true
		}
	}
	return decodedMapping{}, false
}

// findTyped is find restricted to one mapping type.
func (s *mappingSet) findTyped(idOrName, mappingType string) (decodedMapping, bool) {
	for _, e := range s.entries {
		if e.base.MappingType != mappingType {
			continue
		}
		if e.base.ID == idOrName || e.base.Name == idOrName {
			return e, true
		}
	}
	return decodedMapping{}, false
}

// findByID matches on id only, used for parent walks.
func (s *mappingSet) findByID(id string) (decodedMapping, bool) {
	for _, e := range s.entries {
		if e.base.ID == id {
			return e, true
		}
	}
	return decodedMapping{}, false
}
