// Package resolver turns loosely-specified identifiers (canonical ids or
// human names) into canonical ids, looking names up against the remote
// service only when needed.
package resolver

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// NotFoundError reports a name lookup that matched nothing. Never retried.
type NotFoundError struct {
	Kind  string
	Value string
	Scope string
}

func (e *NotFoundError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Value)
	}
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Value, e.Scope)
}

// Resolver resolves entity identifiers inside project scope.
type Resolver struct {
	api    *bevault.Client
	logger *log.Logger
}

// New builds a resolver over the shared API client.
func New(api *bevault.Client, logger *log.Logger) *Resolver {
	return &Resolver{api: api, logger: logger}
}

// resolve is the shared resolve-or-passthrough step: canonical ids return
// unchanged with no network call; names go through the lookup.
func resolve(idOrName string, lookup func() (string, error)) (string, error) {
	if types.IsCanonicalID(idOrName) {
		return idOrName, nil
	}
	return lookup()
}

// ProjectID resolves a project by name via server-side exact filtering. With
// multiple matches the first wins and the ambiguity is logged.
func (r *Resolver) ProjectID(ctx context.Context, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		matches, err := r.api.Projects.FindByName(ctx, idOrName)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			return "", &NotFoundError{Kind: "project", Value: idOrName}
		}
		if len(matches) > 1 {
			r.logger.Warn("multiple projects share name; using first", "name", idOrName, "count", len(matches))
		}
		return matches[0].ID, nil
	})
}

// SourceSystemID resolves a source system; the service supports name-keyed
// retrieval directly.
func (r *Resolver) SourceSystemID(ctx context.Context, projectID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		ss, err := r.api.SourceSystems.Get(ctx, projectID, idOrName)
		if err != nil {
			if bevault.IsNotFound(err) {
				return "", &NotFoundError{Kind: "source system", Value: idOrName, Scope: "project " + projectID}
			}
			return "", err
		}
		return ss.ID, nil
	})
}

// DataPackageID resolves a data package inside a source system.
func (r *Resolver) DataPackageID(ctx context.Context, projectID, sourceSystemID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		dp, err := r.api.SourceSystems.DataPackage(ctx, projectID, sourceSystemID, idOrName)
		if err != nil {
			if bevault.IsNotFound(err) {
				return "", &NotFoundError{Kind: "data package", Value: idOrName, Scope: "source system " + sourceSystemID}
			}
			return "", err
		}
		return dp.ID, nil
	})
}

// StagingTableID resolves a staging table by scanning the data package's
// table listing for an exact name match.
func (r *Resolver) StagingTableID(ctx context.Context, projectID, sourceSystemID, dataPackageID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		tables, err := r.api.SourceSystems.StagingTables(ctx, projectID, sourceSystemID, dataPackageID)
		if err != nil {
			return "", err
		}
		for _, t := range tables {
			if t.Name == idOrName {
				return t.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "staging table", Value: idOrName, Scope: "data package " + dataPackageID}
	})
}

// HubID resolves a hub; name-keyed retrieval.
func (r *Resolver) HubID(ctx context.Context, projectID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		hub, err := r.api.Model.Hub(ctx, projectID, idOrName)
		if err != nil {
			if bevault.IsNotFound(err) {
				return "", &NotFoundError{Kind: "hub", Value: idOrName, Scope: "project " + projectID}
			}
			return "", err
		}
		return hub.ID, nil
	})
}

// LinkID resolves a link; name-keyed retrieval.
func (r *Resolver) LinkID(ctx context.Context, projectID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		link, err := r.api.Model.Link(ctx, projectID, idOrName)
		if err != nil {
			if bevault.IsNotFound(err) {
				return "", &NotFoundError{Kind: "link", Value: idOrName, Scope: "project " + projectID}
			}
			return "", err
		}
		return link.ID, nil
	})
}

// SnapshotID resolves a snapshot by scanning the project's snapshot listing.
func (r *Resolver) SnapshotID(ctx context.Context, projectID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		snaps, err := r.api.Model.Snapshots(ctx, projectID)
		if err != nil {
			return "", err
		}
		for _, s := range snaps {
			if s.Name == idOrName {
				return s.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "snapshot", Value: idOrName, Scope: "project " + projectID}
	})
}

// InformationMartID resolves a mart via a contains-search followed by an
// exact name scan.
func (r *Resolver) InformationMartID(ctx context.Context, projectID, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		marts, err := r.api.InformationMarts.Search(ctx, projectID, idOrName)
		if err != nil {
			return "", err
		}
		for _, m := range marts {
			if m.Name == idOrName {
				return m.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "information mart", Value: idOrName, Scope: "project " + projectID}
	})
}

// ScriptID resolves a script within an already-fetched mart.
func (r *Resolver) ScriptID(mart types.InformationMart, idOrName string) (string, error) {
	return resolve(idOrName, func() (string, error) {
		for _, s := range mart.Scripts {
			if s.Name == idOrName {
				return s.ID, nil
			}
		}
		return "", &NotFoundError{Kind: "script", Value: idOrName, Scope: "information mart " + mart.Name}
	})
}
