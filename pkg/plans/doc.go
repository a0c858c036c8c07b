// Package plans holds the static subscription plan catalog used by the
// activation flow. Plans are not persisted: the catalog is loaded once at
// startup from a Source (in-memory or YAML file), validated, and shared as
// an immutable Catalog.
//
// The activation flow resolves the plan identifier it receives after a
// payment redirect against the catalog by display name, case-insensitively,
// and writes the resolved backend plan ID into the new subscription record:
//
//	catalog, err := plans.NewCatalog(ctx, plans.NewYAMLSource("plans.yml"))
//	if err != nil {
//		// a broken catalog must block startup, not default to free
//	}
//	plan, err := catalog.ResolveByName("Standard")
//
// Catalog validation fails fast: unknown tiers, duplicate display names or
// blank identifiers are configuration errors surfaced at load time, never
// silently corrected.
package plans
