package models

import (
	"fmt"

	"github.com/opnlabs/ghaflow/pkg/value"
)

// Activity types accepted by the `types` filter of several events.
const (
	ActivityOpened          = "opened"
	ActivityReopened        = "reopened"
	ActivitySynchronize     = "synchronize"
	ActivityClosed          = "closed"
	ActivityEdited          = "edited"
	ActivityLabeled         = "labeled"
	ActivityReadyForReview  = "ready_for_review"
	ActivityCreated         = "created"
	ActivityDeleted         = "deleted"
	ActivityPublished       = "published"
	ActivityReleased        = "released"
	ActivityCompleted       = "completed"
	ActivityRequested       = "requested"
	ActivityChecksRequested = "checks_requested"
)

// Event is a trigger under `on`. Filters are written in the order they were
// added; an event without filters is written as `name: null`.
type Event struct {
	name    string
	filters value.Value
}

// OnEvent names any event, including ones without a dedicated helper.
func OnEvent(name string) Event {
	return Event{name: name}
}

func OnPush() Event              { return OnEvent("push") }
func OnPullRequest() Event       { return OnEvent("pull_request") }
func OnPullRequestTarget() Event { return OnEvent("pull_request_target") }
func OnRelease() Event           { return OnEvent("release") }
func OnWorkflowDispatch() Event  { return OnEvent("workflow_dispatch") }
func OnWorkflowCall() Event      { return OnEvent("workflow_call") }
func OnWorkflowRun() Event       { return OnEvent("workflow_run") }
func OnMergeGroup() Event        { return OnEvent("merge_group") }
func OnRepositoryDispatch() Event {
	return OnEvent("repository_dispatch")
}

func (e Event) Name() string {
	return e.name
}

func (e Event) filter(key string, items []string) Event {
	cur, _ := e.filters.Get(key)
	e.filters = e.filters.With(key, cur.Append(value.Strings(items...)))
	return e
}

func (e Event) Branches(b ...string) Event       { return e.filter("branches", b) }
func (e Event) BranchesIgnore(b ...string) Event { return e.filter("branches-ignore", b) }
func (e Event) Tags(t ...string) Event           { return e.filter("tags", t) }
func (e Event) TagsIgnore(t ...string) Event     { return e.filter("tags-ignore", t) }
func (e Event) Paths(p ...string) Event          { return e.filter("paths", p) }
func (e Event) PathsIgnore(p ...string) Event    { return e.filter("paths-ignore", p) }
func (e Event) Types(t ...string) Event          { return e.filter("types", t) }
func (e Event) Workflows(w ...string) Event      { return e.filter("workflows", w) }

// With sets an arbitrary key under the event, for example `inputs` of
// workflow_dispatch.
func (e Event) With(key string, v value.Value) Event {
	e.filters = e.filters.With(key, v)
	return e
}

// Open, Synchronize and Reopen add the matching pull request activity types.
func (e Event) Open() Event        { return e.Types(ActivityOpened) }
func (e Event) Synchronize() Event { return e.Types(ActivitySynchronize) }
func (e Event) Reopen() Event      { return e.Types(ActivityReopened) }

// Value is the `on` map holding this event alone.
func (e Event) Value() value.Value {
	return value.Map(value.Pair(e.name, e.filters))
}

// eventMap turns `on: push` and `on: [push, pull_request]` into the
// equivalent map with a null entry per event.
func eventMap(on value.Value) value.Value {
	var names []any
	switch on.Kind() {
	case value.KindSingle:
		s, _ := on.Scalar()
		names = []any{s}
	case value.KindList:
		names = on.Items()
	default:
		return on
	}
	out := value.Map()
	for _, name := range names {
		out = out.With(fmt.Sprint(name), value.Value{})
	}
	return out
}

// Combine merges events into one `on` map in argument order.
func Combine(events ...Event) value.Value {
	var on value.Value
	for _, e := range events {
		on = on.Merge(e.Value())
	}
	return on
}
