package types

// Tool input payloads. Every identifier-valued field accepts a canonical ID
// or a human name; the resolver decides per field.

// TableScope identifies one staging table through its containment chain.
type TableScope struct {
	Project      string `json:"project"`
	SourceSystem string `json:"sourceSystem"`
	DataPackage  string `json:"dataPackage"`
	StagingTable string `json:"stagingTable"`
}

// MapColumnToHubInput creates a hub mapping for one staging column.
type MapColumnToHubInput struct {
	TableScope
	Hub                   string `json:"hub"`
	Column                string `json:"column"`
	IsFullLoad            bool   `json:"isFullLoad"`
	ExpectNullBusinessKey bool   `json:"expectNullBusinessKey"`
}

// HubReferencePair names one link hub reference and the hub mapping feeding it.
type HubReferencePair struct {
	HubMapping   string `json:"hubMapping"`
	HubReference string `json:"hubReference"`
}

// LinkColumnPair binds one link-owned column to one staging column.
type LinkColumnPair struct {
	LinkColumn    string `json:"linkColumn"`
	StagingColumn string `json:"stagingColumn"`
}

// MapColumnsToLinkInput creates a link mapping.
type MapColumnsToLinkInput struct {
	TableScope
	Link                  string             `json:"link"`
	HubReferences         []HubReferencePair `json:"hubReferences"`
	DependentChildColumns []LinkColumnPair   `json:"dependentChildColumns,omitempty"`
	DataColumns           []LinkColumnPair   `json:"dataColumns,omitempty"`
	IsFullLoad            *bool              `json:"isFullLoad,omitempty"`
}

// MapColumnsToSatelliteInput creates a satellite mapping under an existing
// hub or link mapping.
type MapColumnsToSatelliteInput struct {
	TableScope
	ParentType        string   `json:"parentType"`
	ParentMapping     string   `json:"parentMapping"`
	SatelliteName     string   `json:"satelliteName"`
	Columns           []string `json:"columns"`
	IsMultiActive     bool     `json:"isMultiActive"`
	SubSequenceColumn string   `json:"subSequenceColumn,omitempty"`
}

// UpdateSatelliteMappingInput rewrites an existing satellite mapping. The
// parent type is derived from the staging table's mapping list, not supplied.
type UpdateSatelliteMappingInput struct {
	TableScope
	Mapping           string   `json:"mapping"`
	SatelliteName     string   `json:"satelliteName"`
	Columns           []string `json:"columns"`
	IsMultiActive     bool     `json:"isMultiActive"`
	SubSequenceColumn string   `json:"subSequenceColumn,omitempty"`
}

// DeleteMappingInput removes one mapping from a staging table.
type DeleteMappingInput struct {
	TableScope
	Mapping string `json:"mapping"`
}

// NewStagingColumn describes one column for staging-table creation or column
// addition, in user-friendly types.
type NewStagingColumn struct {
	Name                string `json:"name"`
	DataType            string `json:"dataType"`
	Length              int    `json:"length,omitempty"`
	Nullable            bool   `json:"nullable,omitempty"`
	PrimaryKey          bool   `json:"primaryKey,omitempty"`
	BusinessDescription string `json:"businessDescription,omitempty"`
	HardRuleDefinition  string `json:"hardRuleDefinition,omitempty"`
}

// CreateStagingTableInput creates a staging table from a column list, a view
// query, or an existing source table.
type CreateStagingTableInput struct {
	Project      string             `json:"project"`
	SourceSystem string             `json:"sourceSystem"`
	DataPackage  string             `json:"dataPackage"`
	Name         string             `json:"name"`
	QueryType    string             `json:"queryType,omitempty"`
	Query        string             `json:"query,omitempty"`
	Columns      []NewStagingColumn `json:"columns,omitempty"`
}

// UpdateStagingColumnInput changes one staging-table column.
type UpdateStagingColumnInput struct {
	TableScope
	Column string `json:"column"`
	NewStagingColumn
}

// CreateHubInput creates a hub with its single business key.
type CreateHubInput struct {
	Project               string `json:"project"`
	Name                  string `json:"name"`
	BusinessKeyLength     int    `json:"businessKeyLength,omitempty"`
	IgnoreBusinessKeyCase bool   `json:"ignoreBusinessKeyCase,omitempty"`
	Description           string `json:"description,omitempty"`
}

// NewHubReference declares one hub reference of a new link.
type NewHubReference struct {
	ColumnName string `json:"columnName"`
	Hub        string `json:"hub"`
	Order      int    `json:"order,omitempty"`
}

// NewLinkColumn declares one dependent-child column of a new link.
type NewLinkColumn struct {
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType"`
}

// CreateLinkInput creates a link.
type CreateLinkInput struct {
	Project               string            `json:"project"`
	Name                  string            `json:"name"`
	LinkType              string            `json:"linkType"`
	HubReferences         []NewHubReference `json:"hubReferences"`
	DependentChildColumns []NewLinkColumn   `json:"dependentChildColumns,omitempty"`
}

// CreateSourceSystemInput creates a source system.
type CreateSourceSystemInput struct {
	Project             string `json:"project"`
	Name                string `json:"name"`
	Code                string `json:"code"`
	Version             string `json:"version,omitempty"`
	QualityType         string `json:"qualityType,omitempty"`
	Description         string `json:"description,omitempty"`
	DataSteward         string `json:"dataSteward,omitempty"`
	SystemAdministrator string `json:"systemAdministrator,omitempty"`
}

// CreateDataPackageInput creates a data package inside a source system.
type CreateDataPackageInput struct {
	Project          string `json:"project"`
	SourceSystem     string `json:"sourceSystem"`
	Name             string `json:"name"`
	DeliverySchedule string `json:"deliverySchedule,omitempty"`
}

// CreateInformationMartInput creates an information mart over a snapshot.
type CreateInformationMartInput struct {
	Project     string `json:"project"`
	Name        string `json:"name"`
	Snapshot    string `json:"snapshot"`
	Description string `json:"description,omitempty"`
}

// UpdateScriptCodeInput replaces the code of one information-mart script.
type UpdateScriptCodeInput struct {
	Project         string `json:"project"`
	InformationMart string `json:"informationMart"`
	Script          string `json:"script"`
	Code            string `json:"code"`
}
