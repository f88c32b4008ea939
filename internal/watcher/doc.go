// Package watcher follows a growing log file and delivers each newly appended
// line to a dynamic set of subscribers.
//
// A Watcher starts at the end of the file, polls for complete lines on a
// dedicated goroutine, and hands every non-empty line to each registered
// Subscription in file order. Partial trailing lines are held back until their
// newline arrives. Subscriber panics are logged and isolated, and read errors
// are retried rather than stopping the follower.
//
// Subscriptions are explicit tokens: keep the value returned by Subscribe and
// pass the same token to Unregister. LastLines answers "replay the last N lines"
// with its own independent read, so a line may appear both in a replay result
// and in a later live notification.
package watcher
