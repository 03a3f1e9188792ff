// Package cli builds the repokit command line application.
//
// NewApplication returns a bare cobra root command. Commands are added by
// listeners of the LoadEvent event: Register attaches the built in cache
// and validation command sets to a shared event manager, and pkg/di
// triggers the event with the root command as target and the service
// container as the ParamContainer parameter.
//
// Commands resolve their services from the container when they run, so a
// missing service only fails the command that needs it.
package cli
