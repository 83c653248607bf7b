// Package loader registers HTTP features with the fiber app.
//
// Each feature implements Feature: a name, an enabled switch and a Load
// hook that mounts its routes. The Manager keeps them in registration order
// and LoadAll mounts the enabled ones, stopping at the first failure.
//
//	mgr := loader.NewManager()
//	mgr.Register(mirror.NewFeature(svc, logg))
//	loaded, err := mgr.LoadAll(app)
package loader
