// Package pipeline runs the interactive feature edit as a sequence of
// stages, each consuming the previous stage's result:
//
//	package -> dependency -> features -> manifest
//
// Every stage that may ask the user goes through a [prompt.Selector], so the
// whole flow runs headlessly with [prompt.Scripted]. A cancelled prompt ends
// the run with [prompt.ErrCancelled] before any later stage starts; the
// manifest is never opened for writing in that case.
//
// [List] is the read-only counterpart used by `features list`.
package pipeline
