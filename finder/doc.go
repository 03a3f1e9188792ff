// Package finder adapts data sources to the validator.Finder capability and
// to the record lister used by form.Proxy.
//
// RepositoryFinder and RepositoryLister wrap go-repository-bun repositories.
// SQLFinder queries a plain table through database/sql, which is what the
// command line validators use when no model type is available.
package finder
