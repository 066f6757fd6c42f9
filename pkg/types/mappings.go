package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Mapping type tags used by the remote service.
const (
	MappingTypeHub       = "Hub"
	MappingTypeLink      = "Link"
	MappingTypeSatellite = "Satellite"
)

// UnknownMappingTypeError is returned when a record carries a mapping type
// outside the closed Hub/Link/Satellite set.
type UnknownMappingTypeError struct {
	MappingType string
}

func (e *UnknownMappingTypeError) Error() string {
	return fmt.Sprintf("unknown mapping type %q", e.MappingType)
}

// MappingBase carries the fields shared by all mapping variants.
type MappingBase struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ParentName           string `json:"parentName,omitempty"`
	MappingType          string `json:"mappingType"`
	DataPackageTableID   string `json:"dataPackageTableId,omitempty"`
	SourceSystemName     string `json:"sourceSystemName,omitempty"`
	DataPackageName      string `json:"dataPackageName,omitempty"`
	DataPackageTableName string `json:"dataPackageTableName,omitempty"`
}

// Mapping is the closed, tag-discriminated set of mapping variants.
type Mapping interface {
	Base() MappingBase
	mappingVariant()
}

// BusinessKeyMapping binds one staging column to a hub's business key.
type BusinessKeyMapping struct {
	BusinessKeyID string `json:"businessKeyId,omitempty"`
	ColumnID      string `json:"columnId"`
}

// HubMapping binds a staging table to a hub.
type HubMapping struct {
	MappingBase
	HubID                 string              `json:"hubId"`
	IsFullLoad            bool                `json:"isFullLoad"`
	ExpectNullBusinessKey bool                `json:"expectNullBusinessKey"`
	BusinessKeyMapping    *BusinessKeyMapping `json:"businessKeyMapping,omitempty"`
}

// HubReferenceColumnMapping points one of a link's hub references back to the
// hub mapping that supplies its business key.
type HubReferenceColumnMapping struct {
	HubReferenceID string `json:"hubReferenceId"`
	MappingID      string `json:"mappingId"`
}

// DependentChildColumnMapping binds a link dependent-child column to a
// staging column. Field names follow the wire aliases.
type DependentChildColumnMapping struct {
	DependentChildID     string `json:"linkColumnId"`
	StagingTableColumnID string `json:"tableColumnId"`
}

// DataColumnMapping binds a link data column to a staging column.
type DataColumnMapping struct {
	DataColumnID         string `json:"linkColumnId"`
	StagingTableColumnID string `json:"tableColumnId"`
}

// LinkMapping binds a staging table to a link.
type LinkMapping struct {
	MappingBase
	LinkID                      string                        `json:"linkId"`
	IsFullLoad                  bool                          `json:"isFullLoad"`
	HubReferenceColumnMappings  []HubReferenceColumnMapping   `json:"hubReferenceColumnMappings,omitempty"`
	DependentChildColumnMappings []DependentChildColumnMapping `json:"dependentChildColumnMappings,omitempty"`
	DataColumnMappings          []DataColumnMapping           `json:"dataColumnMappings,omitempty"`
}

// SatelliteColumnMapping binds one satellite column to a staging column.
type SatelliteColumnMapping struct {
	SatelliteColumnID    string `json:"satelliteColumnId,omitempty"`
	StagingTableColumnID string `json:"stagingTableColumnId"`
}

// SatelliteMapping binds a staging table to a satellite hanging off a hub or
// link mapping.
type SatelliteMapping struct {
	MappingBase
	HubID                    string                   `json:"hubId,omitempty"`
	LinkID                   string                   `json:"linkId,omitempty"`
	SatelliteID              string                   `json:"satelliteId,omitempty"`
	SatelliteParentMappingID string                   `json:"satelliteParentMappingId,omitempty"`
	IsMultiActive            bool                     `json:"isMultiActive,omitempty"`
	SatelliteColumnMappings  []SatelliteColumnMapping `json:"satelliteColumnMappings,omitempty"`
}

func (m *HubMapping) Base() MappingBase       { return m.MappingBase }
func (m *LinkMapping) Base() MappingBase      { return m.MappingBase }
func (m *SatelliteMapping) Base() MappingBase { return m.MappingBase }

func (*HubMapping) mappingVariant()       {}
func (*LinkMapping) mappingVariant()      {}
func (*SatelliteMapping) mappingVariant() {}

// Validate checks the satellite attachment rule: at least one of hubId and
// linkId must be set. Both set is accepted; the parent mapping id
// disambiguates.
func (m *SatelliteMapping) Validate() error {
	if m.HubID == "" && m.LinkID == "" {
		return errors.New("satellite mapping must have either hubId or linkId")
	}
	return nil
}

// PeekMappingBase decodes only the shared fields of a raw mapping record,
// ignoring the variant payload. It never rejects unknown mapping types.
func PeekMappingBase(raw json.RawMessage) (MappingBase, error) {
	var base MappingBase
	if err := json.Unmarshal(raw, &base); err != nil {
		return MappingBase{}, fmt.Errorf("decode mapping base: %w", err)
	}
	return base, nil
}

// DecodeMapping reads the mappingType tag and dispatches to the matching
// variant. Unknown tags are an UnknownMappingTypeError.
func DecodeMapping(raw json.RawMessage) (Mapping, error) {
	base, err := PeekMappingBase(raw)
	if err != nil {
		return nil, err
	}
	switch base.MappingType {
	case MappingTypeHub:
		var m HubMapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode hub mapping: %w", err)
		}
		return &m, nil
	case MappingTypeLink:
		var m LinkMapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode link mapping: %w", err)
		}
		return &m, nil
	case MappingTypeSatellite:
		var m SatelliteMapping
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode satellite mapping: %w", err)
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, &UnknownMappingTypeError{MappingType: base.MappingType}
	}
}
