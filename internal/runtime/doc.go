// Package runtime holds the step-recording sort engines and the registry that
// resolves an algorithm name to its engine.
//
// Every engine replays its algorithm on a private copy of the input and appends a
// domain.Step at each point the front end animates. Engines are pure: the same input
// always yields the same timeline.
package runtime
