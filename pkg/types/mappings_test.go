package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeMappingHub(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"id": "m1",
		"name": "Customer",
		"mappingType": "Hub",
		"hubId": "h1",
		"isFullLoad": true,
		"businessKeyMapping": {"businessKeyId": "bk1", "columnId": "c1"}
	}`)
	m, err := DecodeMapping(raw)
	if err != nil {
		t.Fatalf("DecodeMapping: %v", err)
	}
	hub, ok := m.(*HubMapping)
	if !ok {
		t.Fatalf("decoded %T, want *HubMapping", m)
	}
	if hub.HubID != "h1" || !hub.IsFullLoad {
		t.Fatalf("unexpected hub mapping: %+v", hub)
	}
	if hub.BusinessKeyMapping == nil || hub.BusinessKeyMapping.ColumnID != "c1" {
		t.Fatalf("business key mapping not decoded: %+v", hub.BusinessKeyMapping)
	}
	if m.Base().ID != "m1" || m.Base().MappingType != MappingTypeHub {
		t.Fatalf("unexpected base: %+v", m.Base())
	}
}

func TestDecodeMappingLinkAliases(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"id": "m2",
		"name": "OrderLine",
		"mappingType": "Link",
		"linkId": "l1",
		"hubReferenceColumnMappings": [{"hubReferenceId": "hr1", "mappingId": "m1"}],
		"dependentChildColumnMappings": [{"linkColumnId": "dep1", "tableColumnId": "c2"}],
		"dataColumnMappings": [{"linkColumnId": "dat1", "tableColumnId": "c3"}]
	}`)
	m, err := DecodeMapping(raw)
	if err != nil {
		t.Fatalf("DecodeMapping: %v", err)
	}
	link, ok := m.(*LinkMapping)
	if !ok {
		t.Fatalf("decoded %T, want *LinkMapping", m)
	}
	if len(link.HubReferenceColumnMappings) != 1 || link.HubReferenceColumnMappings[0].MappingID != "m1" {
		t.Fatalf("hub reference mappings not decoded: %+v", link.HubReferenceColumnMappings)
	}
	// Dependent-child and data columns share the linkColumnId/tableColumnId
	// wire aliases.
	if link.DependentChildColumnMappings[0].DependentChildID != "dep1" ||
		link.DependentChildColumnMappings[0].StagingTableColumnID != "c2" {
		t.Fatalf("dependent child aliases not decoded: %+v", link.DependentChildColumnMappings)
	}
	if link.DataColumnMappings[0].DataColumnID != "dat1" ||
		link.DataColumnMappings[0].StagingTableColumnID != "c3" {
		t.Fatalf("data column aliases not decoded: %+v", link.DataColumnMappings)
	}
}

func TestDecodeMappingSatelliteAttachment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"hub parent", `{"id":"s1","mappingType":"Satellite","hubId":"h1"}`, false},
		{"link parent", `{"id":"s2","mappingType":"Satellite","linkId":"l1"}`, false},
		{"both parents", `{"id":"s3","mappingType":"Satellite","hubId":"h1","linkId":"l1"}`, false},
		{"no parent", `{"id":"s4","mappingType":"Satellite"}`, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeMapping(json.RawMessage(tc.raw))
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("DecodeMapping: %v", err)
			}
		})
	}
}

func TestDecodeMappingUnknownType(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"id":"x1","name":"future","mappingType":"Reference"}`)
	_, err := DecodeMapping(raw)
	var unknown *UnknownMappingTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownMappingTypeError, got %v", err)
	}
	if unknown.MappingType != "Reference" {
		t.Fatalf("unexpected mapping type in error: %q", unknown.MappingType)
	}

	// The lenient peek still surfaces the shared fields.
	base, err := PeekMappingBase(raw)
	if err != nil {
		t.Fatalf("PeekMappingBase: %v", err)
	}
	if base.ID != "x1" || base.Name != "future" {
		t.Fatalf("unexpected base: %+v", base)
	}
}
