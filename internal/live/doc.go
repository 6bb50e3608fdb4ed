// Package live turns store list queries into push-based subscriptions.
//
// A Hub owns one topic per query key (all courses, holes of one course, all
// players, all games). Subscribing loads the current snapshot and queues it
// as the first value; afterwards every committed store write that touches a
// query's tables produces a fresh snapshot for every subscriber of that key.
//
// Delivery guarantees:
//   - Per subscriber, snapshots arrive in the order they were produced
//   - No snapshot is dropped: each subscriber has an unbounded queue, so a
//     slow consumer never blocks the store or other subscribers
//   - Ordering across different keys is unspecified
//
// Closing a subscription (or cancelling the context it was created with)
// stops delivery and closes its channel. It never touches the store.
package live
