package vault

import (
	"context"
	"encoding/json"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// The mapping tools delegate to the assembler; all resolution and payload
// construction lives there.

// MapColumnToHub creates a hub mapping for one staging column.
func (s *Service) MapColumnToHub(ctx context.Context, in types.MapColumnToHubInput) (json.RawMessage, error) {
	return s.asm.MapColumnToHub(ctx, in)
}

// MapColumnsToLink creates a link mapping.
func (s *Service) MapColumnsToLink(ctx context.Context, in types.MapColumnsToLinkInput) (json.RawMessage, error) {
	return s.asm.MapColumnsToLink(ctx, in)
}

// MapColumnsToSatellite creates a satellite mapping.
func (s *Service) MapColumnsToSatellite(ctx context.Context, in types.MapColumnsToSatelliteInput) (json.RawMessage, error) {
	return s.asm.MapColumnsToSatellite(ctx, in)
}

// UpdateSatelliteMapping rewrites an existing satellite mapping.
func (s *Service) UpdateSatelliteMapping(ctx context.Context, in types.UpdateSatelliteMappingInput) (json.RawMessage, error) {
	return s.asm.UpdateSatelliteMapping(ctx, in)
}

// DeleteMapping removes one mapping from a staging table.
func (s *Service) DeleteMapping(ctx context.Context, in types.DeleteMappingInput) error {
	return s.asm.DeleteMapping(ctx, in)
}
