// Package events is a small prioritized event manager.
//
// A Manager owns listeners attached directly to it and, through its
// identifiers, sees listeners attached to a SharedManager. This lets a
// package contribute behaviour to a component it never holds a reference
// to: the cli package registers its commands on the shared "repokit"
// identifier for the "loadCli.post" event, and the application factory
// triggers that event on the command it builds.
//
//	shared := events.NewSharedManager()
//	shared.Attach("repokit", "loadCli.post", func(ctx context.Context, e *events.Event) error {
//		root := e.Target.(*cobra.Command)
//		root.AddCommand(newMyCommand())
//		return nil
//	}, 0)
//
//	manager := events.NewManager(shared, "repokit")
//	_, err := manager.Trigger(ctx, "loadCli.post", root, nil)
//
// Listeners run synchronously, highest priority first. A listener stops
// the remaining ones by returning ErrStopPropagation or by calling
// Event.StopPropagation.
package events
