package types

import "encoding/json"

// Project is a top-level modeling workspace on the remote service.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SourceSystem groups the data packages delivered by one upstream system.
type SourceSystem struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Code                string `json:"code,omitempty"`
	Version             string `json:"version,omitempty"`
	QualityType         string `json:"qualityType,omitempty"`
	DataSteward         string `json:"dataSteward,omitempty"`
	SystemAdministrator string `json:"systemAdministrator,omitempty"`
}

// DataPackage is one delivery unit inside a source system.
type DataPackage struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DeliverySchedule string `json:"deliverySchedule,omitempty"`
}

// BaseType describes the source-side type of a staging column.
type BaseType struct {
	Type     string `json:"type,omitempty"`
	DataType string `json:"dataType"`
	Length   int    `json:"length,omitempty"`
}

// StagingColumn is one column of a staging table's catalogue.
type StagingColumn struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	DataType            string    `json:"dataType,omitempty"`
	BaseType            *BaseType `json:"baseType,omitempty"`
	Length              int       `json:"length,omitempty"`
	Nullable            bool      `json:"nullable,omitempty"`
	PrimaryKey          bool      `json:"primaryKey,omitempty"`
	BusinessDescription string    `json:"businessDescription,omitempty"`
	HardRuleDefinition  string    `json:"hardRuleDefinition,omitempty"`
}

// StagingTable is a source-aligned table whose columns get mapped onto the model.
type StagingTable struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	QueryType string `json:"queryType,omitempty"`
	Query     string `json:"query,omitempty"`
	Embedded  struct {
		Columns []StagingColumn `json:"columns"`
	} `json:"_embedded"`
}

// Columns returns the embedded column catalogue.
func (t StagingTable) Columns() []StagingColumn {
	return t.Embedded.Columns
}

// BusinessKey is a hub's single identifying column.
type BusinessKey struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Length int    `json:"length,omitempty"`
}

// Hub is a modeling entity keyed by one business key.
type Hub struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	IgnoreBusinessKeyCase bool         `json:"ignoreBusinessKeyCase,omitempty"`
	BusinessKey           *BusinessKey `json:"businessKey,omitempty"`
}

// HubReference is one hub-pointing column of a link.
type HubReference struct {
	ID         string `json:"id"`
	ColumnName string `json:"columnName"`
	Order      int    `json:"order,omitempty"`
	HubID      string `json:"hubId,omitempty"`
}

// DependentChildColumn is a link column that participates in the link's grain.
type DependentChildColumn struct {
	ID         string `json:"id"`
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType,omitempty"`
}

// DataColumn is a descriptive (non-grain) link column.
type DataColumn struct {
	ID         string `json:"id"`
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType,omitempty"`
	Length     int    `json:"length,omitempty"`
	Precision  int    `json:"precision,omitempty"`
	Scale      int    `json:"scale,omitempty"`
}

// Link is a modeling entity relating hubs via hub references plus optional
// dependent-child and data columns.
type Link struct {
	ID                    string
	Name                  string
	LinkType              string
	HubReferences         []HubReference
	DependentChildColumns []DependentChildColumn
	DataColumns           []DataColumn
}

// UnmarshalJSON flattens the HAL envelope. The service nests hub references
// twice: _embedded.hubReferences is itself a paginated container whose
// _embedded.hubReferences holds the actual list.
func (l *Link) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		LinkType string `json:"linkType"`
		Embedded struct {
			HubReferences struct {
				Embedded struct {
					HubReferences []HubReference `json:"hubReferences"`
				} `json:"_embedded"`
			} `json:"hubReferences"`
			DependentChildColumns []DependentChildColumn `json:"dependentChildColumns"`
			DataColumns           []DataColumn           `json:"dataColumns"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.ID = aux.ID
	l.Name = aux.Name
	l.LinkType = aux.LinkType
	l.HubReferences = aux.Embedded.HubReferences.Embedded.HubReferences
	l.DependentChildColumns = aux.Embedded.DependentChildColumns
	l.DataColumns = aux.Embedded.DataColumns
	return nil
}

// MarshalJSON restores the flat shape used by tool responses.
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID                    string                 `json:"id"`
		Name                  string                 `json:"name"`
		LinkType              string                 `json:"linkType,omitempty"`
		HubReferences         []HubReference         `json:"hubReferences,omitempty"`
		DependentChildColumns []DependentChildColumn `json:"dependentChildColumns,omitempty"`
		DataColumns           []DataColumn           `json:"dataColumns,omitempty"`
	}{l.ID, l.Name, l.LinkType, l.HubReferences, l.DependentChildColumns, l.DataColumns})
}

// SatelliteColumn is one attribute column of a satellite.
type SatelliteColumn struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DataType string `json:"dataType,omitempty"`
}

// SatelliteParent identifies the hub or link a satellite hangs off.
type SatelliteParent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Satellite holds descriptive attributes attached to a hub or link.
type Satellite struct {
	ID            string
	Name          string
	IsMultiActive bool
	Columns       []SatelliteColumn
	Parent        *SatelliteParent
}

func (s *Satellite) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		IsMultiActive bool   `json:"isMultiActive"`
		Embedded      struct {
			Columns []SatelliteColumn `json:"columns"`
			Parent  *SatelliteParent  `json:"parent"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.ID = aux.ID
	s.Name = aux.Name
	s.IsMultiActive = aux.IsMultiActive
	s.Columns = aux.Embedded.Columns
	s.Parent = aux.Embedded.Parent
	return nil
}

func (s Satellite) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID            string            `json:"id"`
		Name          string            `json:"name"`
		IsMultiActive bool              `json:"isMultiActive"`
		Columns       []SatelliteColumn `json:"columns,omitempty"`
		Parent        *SatelliteParent  `json:"parent,omitempty"`
	}{s.ID, s.Name, s.IsMultiActive, s.Columns, s.Parent})
}

// ModelEntity is a lightweight search result from the model index.
type ModelEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Snapshot is a point-in-time view information marts build on.
type Snapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// InformationMartScript is one script belonging to an information mart.
type InformationMartScript struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// InformationMart is a downstream delivery object built over a snapshot.
type InformationMart struct {
	ID          string
	Name        string
	Description string
	SnapshotID  string
	Scripts     []InformationMartScript
}

func (m *InformationMart) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		SnapshotID  string `json:"snapshotId"`
		Embedded    struct {
			Scripts []InformationMartScript `json:"informationMartScripts"`
		} `json:"_embedded"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ID = aux.ID
	m.Name = aux.Name
	m.Description = aux.Description
	m.SnapshotID = aux.SnapshotID
	m.Scripts = aux.Embedded.Scripts
	return nil
}

func (m InformationMart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string                  `json:"id"`
		Name        string                  `json:"name"`
		Description string                  `json:"description,omitempty"`
		SnapshotID  string                  `json:"snapshotId,omitempty"`
		Scripts     []InformationMartScript `json:"scripts,omitempty"`
	}{m.ID, m.Name, m.Description, m.SnapshotID, m.Scripts})
}
